package features

// Field names of a sales record.
const (
	ItemIdentifier          = "Item_Identifier"
	ItemWeight              = "Item_Weight"
	ItemFatContent          = "Item_Fat_Content"
	ItemVisibility          = "Item_Visibility"
	ItemType                = "Item_Type"
	ItemMRP                 = "Item_MRP"
	OutletIdentifier        = "Outlet_Identifier"
	OutletEstablishmentYear = "Outlet_Establishment_Year"
	OutletSize              = "Outlet_Size"
	OutletLocationType      = "Outlet_Location_Type"
	OutletType              = "Outlet_Type"
	ItemOutletSales         = "Item_Outlet_Sales"
)

// numericFields is the passthrough column order. It is part of the schema
// contract and must not be reordered.
var numericFields = []string{
	ItemWeight,
	ItemVisibility,
	ItemMRP,
	OutletEstablishmentYear,
}

// categoricalFields is the one-hot group order.
var categoricalFields = []string{
	ItemFatContent,
	ItemType,
	OutletSize,
	OutletLocationType,
	OutletType,
}

// NumericFields returns the numeric feature fields in schema order.
func NumericFields() []string {
	return append([]string(nil), numericFields...)
}

// CategoricalFields returns the categorical feature fields in schema order.
func CategoricalFields() []string {
	return append([]string(nil), categoricalFields...)
}

func isNumericField(field string) bool {
	for _, f := range numericFields {
		if f == field {
			return true
		}
	}
	return false
}

func isCategoricalField(field string) bool {
	for _, f := range categoricalFields {
		if f == field {
			return true
		}
	}
	return false
}
