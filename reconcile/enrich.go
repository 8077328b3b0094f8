package reconcile

import (
	"planact/normalization"
	"planact/table"
)

// EnrichVPOLevel left-joins the merged plan/actuals rows with the order-book
// pivot on schedule number, compared trimmed and case-insensitively. Every
// merged row is kept; a schedule with several pivot rows fans out. Columns
// generated for blank headers are dropped.
func EnrichVPOLevel(merged *table.Table, pivot *normalization.OrderBookPivot) (*table.Table, error) {
	out, err := table.Join(merged, pivot.Table(), table.JoinSpec{
		Kind:    table.LeftJoin,
		LeftOn:  []string{normalization.ColScheduleNo},
		RightOn: []string{normalization.ColScheduleNo},
		Key: func(_ string, v table.Value) string {
			return normalization.ScheduleKey(v)
		},
	})
	if err != nil {
		return nil, err
	}
	return out.DropMatching(table.IsUnnamed), nil
}

// JoinProductMapping left-joins VPO-level rows with the product mapping on
// Sample Code = Style, both compared as trimmed text.
func JoinProductMapping(vpo *table.Table, mapping *normalization.ProductMapping) (*table.Table, error) {
	return joinOnSampleCode(vpo, mapping)
}

// MergeOrderBookWithMapping attaches product descriptors to the grouped order book.
func MergeOrderBookWithMapping(ob *normalization.OrderBook, mapping *normalization.ProductMapping) (*table.Table, error) {
	return joinOnSampleCode(ob.GroupsTable(), mapping)
}

func joinOnSampleCode(left *table.Table, mapping *normalization.ProductMapping) (*table.Table, error) {
	out, err := table.Join(left, mapping.Table, table.JoinSpec{
		Kind:    table.LeftJoin,
		LeftOn:  []string{normalization.ColSampleCode},
		RightOn: []string{normalization.ColStyle},
		Key: func(_ string, v table.Value) string {
			return normalization.TextKey(v)
		},
	})
	if err != nil {
		return nil, err
	}
	return out.DropMatching(table.IsUnnamed), nil
}
