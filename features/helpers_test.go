package features

import "maps"

func baseRecord() RawRecord {
	return RawRecord{
		ItemIdentifier:          Text("FDA15"),
		ItemWeight:              Number(9.3),
		ItemFatContent:          Text("Low Fat"),
		ItemVisibility:          Number(0.016047301),
		ItemType:                Text("Dairy"),
		ItemMRP:                 Number(249.8092),
		OutletIdentifier:        Text("OUT049"),
		OutletEstablishmentYear: Number(1999),
		OutletSize:              Text("Medium"),
		OutletLocationType:      Text("Tier 1"),
		OutletType:              Text("Supermarket Type1"),
		ItemOutletSales:         Number(3735.138),
	}
}

func with(r RawRecord, field string, v Value) RawRecord {
	out := maps.Clone(r)
	out[field] = v
	return out
}

func without(r RawRecord, field string) RawRecord {
	out := maps.Clone(r)
	delete(out, field)
	return out
}

func row(id string, weight Value, fat string, vis float64, itemType string, mrp float64,
	outlet string, year float64, size Value, tier, outletType string) RawRecord {
	return RawRecord{
		ItemIdentifier:          Text(id),
		ItemWeight:              weight,
		ItemFatContent:          Text(fat),
		ItemVisibility:          Number(vis),
		ItemType:                Text(itemType),
		ItemMRP:                 Number(mrp),
		OutletIdentifier:        Text(outlet),
		OutletEstablishmentYear: Number(year),
		OutletSize:              size,
		OutletLocationType:      Text(tier),
		OutletType:              Text(outletType),
	}
}

// samplePopulation is the head of the training data with a few noisy fat
// content spellings mixed in.
func samplePopulation() []RawRecord {
	return []RawRecord{
		row("FDA15", Number(9.3), "Low Fat", 0.016047301, "Dairy", 249.8092, "OUT049", 1999, Text("Medium"), "Tier 1", "Supermarket Type1"),
		row("DRC01", Number(5.92), "Regular", 0.019278216, "Soft Drinks", 48.2692, "OUT018", 2009, Text("Medium"), "Tier 3", "Supermarket Type2"),
		row("FDN15", Number(17.5), "low fat", 0.016760075, "Meat", 141.618, "OUT049", 1999, Text("Medium"), "Tier 1", "Supermarket Type1"),
		row("FDX07", Number(19.2), "Regular", 0, "Fruits and Vegetables", 182.095, "OUT010", 1998, Null, "Tier 3", "Grocery Store"),
		row("NCD19", Number(8.93), "LF", 0, "Household", 53.8614, "OUT013", 1987, Text("High"), "Tier 3", "Supermarket Type1"),
		row("FDP36", Number(10.395), "reg", 0, "Baking Goods", 51.4008, "OUT018", 2009, Text("Medium"), "Tier 3", "Supermarket Type2"),
		row("FDO10", Number(13.65), "Regular", 0.012741089, "Snack Foods", 57.6588, "OUT013", 1987, Text("High"), "Tier 3", "Supermarket Type1"),
		row("FDP10", Null, "Low Fat", 0.127469857, "Snack Foods", 107.7622, "OUT027", 1985, Text("Medium"), "Tier 3", "Supermarket Type3"),
	}
}

const sampleMeanWeight = 84.895 / 7
