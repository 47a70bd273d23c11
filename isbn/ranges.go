package isbn

import (
	"fmt"

	"github.com/pkg/errors"
)

// DefaultPrefix is the GS1 prefix assumed for the legacy 10-digit family,
// which predates GS1 prefixes entirely.
const DefaultPrefix = 978

// musicEANPrefix is the EAN expansion of the ISMN "M" marker: GS1 prefix
// 979 with registration group 0 ("Musicland").
const musicEANPrefix = "9790"

// Range is one allocation band of a registration authority's table: points
// in [Start, End] belong to an element of Length digits. Length 0 marks a
// band that is explicitly unallocated.
type Range struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Length int `json:"length"`
}

// NewRange returns a Range after checking 0 <= start <= end and length >= 0.
func NewRange(start, end, length int) (Range, error) {
	if start < 0 || end < start {
		return Range{}, errors.Errorf("illegal range: [%d, %d] is not a valid interval", start, end)
	}
	if length < 0 {
		return Range{}, errors.Errorf("illegal range: negative element length %d", length)
	}
	return Range{Start: start, End: end, Length: length}, nil
}

// Contains returns true if point falls within the range, inclusive.
func (r Range) Contains(point int) bool {
	return point >= r.Start && point <= r.End
}

// RangeTable is one authority's ordered list of allocation bands. The data
// source supplies bands non-overlapping and ascending; the table does not
// re-sort or check coverage, and a point matching no band is a normal,
// reportable outcome. Tables are small (tens of bands), so lookup is a
// linear first-match scan.
type RangeTable struct {
	Agency string  `json:"name"`
	Ranges []Range `json:"list"`
}

// Find returns the first range containing point, if any.
func (t *RangeTable) Find(point int) (Range, bool) {
	for _, r := range t.Ranges {
		if r.Contains(point) {
			return r, true
		}
	}
	return Range{}, false
}

// RangeProvider resolves a prefix key to its allocation table. Keys are
// either a bare GS1 prefix ("978") or a "<gs1>-<group>" compound ("978-1").
// A nil result means the provider knows no table for the key.
//
// The contract is purely synchronous request/response. Implementations may
// refresh their backing data concurrently, as the ranges package does, so
// long as every returned table is complete and internally consistent.
type RangeProvider interface {
	GetRanges(key string) *RangeTable
}

// GS1Key formats a bare GS1 prefix lookup key, e.g. GS1Key(978) == "978".
func GS1Key(prefix int) string {
	return fmt.Sprintf("%03d", prefix)
}

// GroupKey formats a compound prefix-group lookup key from the group's
// element string (which preserves leading zeros), e.g. "979-10".
func GroupKey(prefix int, group string) string {
	return fmt.Sprintf("%03d-%s", prefix, group)
}

// musicRegistrantRanges is the fixed ISMN registrant allocation. Unlike the
// book tables, this is a constant of the scheme itself, not external data,
// so it lives here rather than behind a RangeProvider.
var musicRegistrantRanges = RangeTable{
	Agency: "Musicland",
	Ranges: []Range{
		{Start: 0, End: 999999, Length: 3},
		{Start: 1000000, End: 3999999, Length: 4},
		{Start: 4000000, End: 6999999, Length: 5},
		{Start: 7000000, End: 8999999, Length: 6},
		{Start: 9000000, End: 9999999, Length: 7},
	},
}
