// Package property holds the shared property data model used across the
// estimation pipeline. Records are produced once at the oracle boundary and
// treated as immutable afterwards; numeric fields are pointers because the
// upstream source routinely returns partial data.
package property

import "strings"

// Record describes a single property as returned by the lookup oracle.
type Record struct {
	Street     string `json:"street"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	PropertyType string   `json:"property_type,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *float64 `json:"bathrooms,omitempty"`
	LivingArea   *float64 `json:"living_area,omitempty"`
	LotSize      *float64 `json:"lot_size,omitempty"`
	YearBuilt    *int     `json:"year_built,omitempty"`
	CurrentValue *float64 `json:"current_value,omitempty"`
}

// FullAddress renders the record's address as a single comma-joined line.
func (r Record) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{r.Street, r.City, r.State, r.PostalCode} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

// HasValue reports whether the record carries a positive current value.
func (r Record) HasValue() bool {
	return r.CurrentValue != nil && *r.CurrentValue > 0
}

// UserDetails carries caller-supplied characteristics after a handoff
// request. Every field is optional; missing fields fall back to the handoff
// default assumptions.
type UserDetails struct {
	SquareFootage *float64 `json:"square_footage,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
}

// Empty reports whether no field was supplied at all.
func (d *UserDetails) Empty() bool {
	return d == nil || (d.SquareFootage == nil && d.Bedrooms == nil && d.Bathrooms == nil)
}

// StreetName extracts the street-name token from a free-text address: the
// leading house number is stripped, as is everything after the first comma.
// "123 Maple Ave, Springfield" yields "maple ave". The result is lowercased
// for case-insensitive containment checks.
func StreetName(address string) string {
	line := address
	if idx := strings.Index(line, ","); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Fields(line)
	for len(fields) > 0 && isNumericToken(fields[0]) {
		fields = fields[1:]
	}
	return strings.ToLower(strings.Join(fields, " "))
}

func isNumericToken(tok string) bool {
	if tok == "" {
		return false
	}
	digits := 0
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == '/':
			// unit-style prefixes such as "12-14" keep counting as numeric
		default:
			return false
		}
	}
	return digits > 0
}

// NormalizeAddress collapses whitespace and case so two spellings of the same
// address compare equal.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Float returns a pointer to v. Convenience for building records in fixtures
// and tests.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
