package oracle

import "github.com/renovalab/renovest/internal/property"

// SampleRecords returns the bundled demo dataset used by the front-ends when
// no property data file is configured. The records cluster around two streets
// so neighbourhood queries produce plausible comparables.
func SampleRecords() []property.Record {
	return []property.Record{
		{
			Street: "412 Maple Ave", City: "Springfield", State: "IL", PostalCode: "62704",
			PropertyType: "Single-Family",
			Bedrooms:     property.Int(3), Bathrooms: property.Float(2),
			LivingArea: property.Float(1980), LotSize: property.Float(6900),
			YearBuilt: property.Int(1968), CurrentValue: property.Float(287000),
		},
		{
			Street: "418 Maple Ave", City: "Springfield", State: "IL", PostalCode: "62704",
			PropertyType: "Single-Family",
			Bedrooms:     property.Int(4), Bathrooms: property.Float(2.5),
			LivingArea: property.Float(2350), LotSize: property.Float(7200),
			YearBuilt: property.Int(1974), CurrentValue: property.Float(342000),
		},
		{
			Street: "425 Maple Ave", City: "Springfield", State: "IL", PostalCode: "62704",
			PropertyType: "Townhouse",
			Bedrooms:     property.Int(3), Bathrooms: property.Float(1.5),
			LivingArea: property.Float(1640), LotSize: property.Float(3100),
			YearBuilt: property.Int(1989), CurrentValue: property.Float(231000),
		},
		{
			Street: "433 Maple Ave", City: "Springfield", State: "IL", PostalCode: "62704",
			PropertyType: "Single-Family",
			Bedrooms:     property.Int(2), Bathrooms: property.Float(1),
			LivingArea: property.Float(1120), LotSize: property.Float(5300),
			YearBuilt: property.Int(1952), CurrentValue: property.Float(176500),
		},
		{
			Street: "102 Birchwood Ct", City: "Springfield", State: "IL", PostalCode: "62711",
			PropertyType: "Condominium",
			Bedrooms:     property.Int(2), Bathrooms: property.Float(2),
			LivingArea: property.Float(1310), YearBuilt: property.Int(2004),
			CurrentValue: property.Float(198000),
		},
		{
			Street: "109 Birchwood Ct", City: "Springfield", State: "IL", PostalCode: "62711",
			PropertyType: "Condominium",
			Bedrooms:     property.Int(3), Bathrooms: property.Float(2),
			LivingArea: property.Float(1540), YearBuilt: property.Int(2006),
			CurrentValue: property.Float(224500),
		},
		{
			Street: "117 Birchwood Ct", City: "Springfield", State: "IL", PostalCode: "62711",
			PropertyType: "Townhouse",
			Bedrooms:     property.Int(3), Bathrooms: property.Float(2.5),
			LivingArea: property.Float(1725), YearBuilt: property.Int(2011),
			CurrentValue: property.Float(259000),
		},
	}
}
