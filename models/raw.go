package models

// RawSalesRow holds one unparsed CSV row exactly as read from disk. It is
// cleaned into a SalesRecord before it reaches the database.
type RawSalesRow struct {
	Line                    int
	ItemIdentifier          string
	ItemWeight              string
	ItemFatContent          string
	ItemVisibility          string
	ItemType                string
	ItemMRP                 string
	OutletIdentifier        string
	OutletEstablishmentYear string
	OutletSize              string
	OutletLocationType      string
	OutletType              string
	ItemOutletSales         string
}
