package enums

import "fmt"

// SortKey orders catalog listings. The zero value sorts by title ascending.
type SortKey string

const (
	SortTitleAsc  SortKey = "az"
	SortTitleDesc SortKey = "za"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

var validSortKeys = []SortKey{
	SortTitleAsc,
	SortTitleDesc,
	SortPriceAsc,
	SortPriceDesc,
}

// String implements fmt.Stringer.
func (s SortKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortKey.
func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input into a SortKey. Empty input falls back to
// the default title-ascending sort.
func ParseSortKey(value string) (SortKey, error) {
	if value == "" {
		return SortTitleAsc, nil
	}
	key := SortKey(value)
	if !key.IsValid() {
		return "", fmt.Errorf("invalid sort key %q", value)
	}
	return key, nil
}
