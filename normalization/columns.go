// Package normalization turns the raw tables of the five uploaded files into
// typed, key-normalized records ready for reconciliation.
package normalization

import (
	"log/slog"
)

// Input roles, used as the source of errors and warnings.
const (
	SourceShopfloor      = "shopfloor"
	SourceOrderBook      = "order book"
	SourceProductMapping = "product mapping"
	SourceLoadingPlan    = "loading plan"
	SourceSignoff        = "sign-off"
)

// Column names shared by the input files and the report.
const (
	ColSchedule     = "Schedule"
	ColScheduleNo   = "Schedule No"
	ColDate         = "Date"
	ColModule       = "Module"
	ColSewingGood   = "Sewingout[130]-Good"
	ColModuleLabel  = "Module_Upd"
	ColActuals      = "Actuals"
	ColQuantity     = "Quantity"
	ColCustStyle    = "Cust Style No"
	ColCumCut       = "Cum Cut Qty"
	ColCOQty        = "CO Qty"
	ColCumSewOut    = "Cum SewOut Qty"
	ColCumSewOutRej = "Cum Sew Out Rej Qty"
	ColCumSewIn     = "Cum Sew In Qty"
	ColDelivered    = "Delivered Qty"
	ColVPO          = "VPO No"
	ColTechClass    = "Group Tech Class"
	ColPED          = "PED"
	ColSampleCode   = "Sample Code"
	ColSewGood      = "Sew_Good"
	ColCutBalance   = "Cut Balance"
	ColCutPct       = "Cut %"
	ColSewPct       = "Sew%"
	ColIMS          = "IMS"
	ColRejPct       = "Rej%"
	ColBalToShip    = "Bal_to_Ship"
	ColDelPct       = "Del%"
	ColBalToSewPct  = "Bal_to_sew%"
	ColBalToSew     = "Bal_to_sew"
	ColStyle        = "Style"
	ColProduct      = "Product"
	ColMasterItem   = "Master Item"
	ColSubItem      = "Sub Item"
	ColIndOnly      = "IND Only"
)

// Options holds the tunables of the normalization stages.
type Options struct {
	// TeamLabel prefixes the zero-padded module number, e.g. "BAI III Team 03".
	TeamLabel string
	// PlanFixedColumns is the number of descriptive columns before the first
	// date column of the loading plan.
	PlanFixedColumns int
	Logger           *slog.Logger
}

// DefaultOptions returns the factory-floor defaults.
func DefaultOptions() Options {
	return Options{
		TeamLabel:        "BAI III Team",
		PlanFixedColumns: 15,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
