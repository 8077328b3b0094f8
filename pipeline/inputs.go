package pipeline

import (
	"planact/normalization"
)

// Role names one of the five uploaded files.
type Role string

const (
	RoleShopfloor      Role = "shopfloor"
	RoleOrderBook      Role = "order_book"
	RoleProductMapping Role = "product_mapping"
	RoleLoadingPlan    Role = "loading_plan"
	RoleSignoff        Role = "signoff"
)

// Roles returns every role in upload order.
func Roles() []Role {
	return []Role{RoleShopfloor, RoleOrderBook, RoleProductMapping, RoleLoadingPlan, RoleSignoff}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

// Source returns the name used for the role in errors and warnings.
func (r Role) Source() string {
	switch r {
	case RoleShopfloor:
		return normalization.SourceShopfloor
	case RoleOrderBook:
		return normalization.SourceOrderBook
	case RoleProductMapping:
		return normalization.SourceProductMapping
	case RoleLoadingPlan:
		return normalization.SourceLoadingPlan
	case RoleSignoff:
		return normalization.SourceSignoff
	}
	return string(r)
}

// Label is the upload prompt shown to users.
func (r Role) Label() string {
	switch r {
	case RoleShopfloor:
		return "Shopfloor Data"
	case RoleOrderBook:
		return "Order Book"
	case RoleProductMapping:
		return "Product Mapping"
	case RoleLoadingPlan:
		return "Loading Plan"
	case RoleSignoff:
		return "Signoff Data"
	}
	return string(r)
}

// Input is one uploaded file.
type Input struct {
	Role Role
	Name string // original file name, informational
	Data []byte
}

// Inputs holds the uploaded files by role.
type Inputs map[Role]Input

// Add stores data under role.
func (in Inputs) Add(role Role, name string, data []byte) {
	in[role] = Input{Role: role, Name: name, Data: data}
}

// Missing returns the roles with no file, in upload order.
func (in Inputs) Missing() []Role {
	var missing []Role
	for _, r := range Roles() {
		if f, ok := in[r]; !ok || len(f.Data) == 0 {
			missing = append(missing, r)
		}
	}
	return missing
}
