package isbn

import "strconv"

// Subset partitions the identifier types into compatibility groups.
// Conversion between two types is only defined when both belong to the same
// subset.
type Subset int

const (
	// DefaultSubset covers the book-trade types (ISBN, EAN, ISBN-A, GTIN-14).
	DefaultSubset = Subset(iota)
	// MusicSubset covers the printed-music types (ISMN and its EAN form).
	MusicSubset
)

func (s Subset) String() string {
	switch s {
	case DefaultSubset:
		return "default"
	case MusicSubset:
		return "music"
	}
	return "unknown subset: " + strconv.Itoa(int(s))
}

// Type identifies one concrete representation of an identifier code.
//
// The set is closed: the parser only ever produces these values, and the
// formatter has a conversion rule for every one of them.
type Type int

const (
	// ISBN13 is the hyphenated (or spaced) 13-digit form, e.g.
	// "978-5-17-095179-6".
	ISBN13 = Type(iota)
	// ISBN10 is the legacy hyphenated 10-digit form, e.g. "5-17-095179-5".
	ISBN10
	// EAN13 is the bare 13-digit barcode form, e.g. "9785170951796".
	EAN13
	// EAN10 is the bare 10-digit form, e.g. "5170951795".
	EAN10
	// ISBNA is the DOI "actionable ISBN" form, e.g. "10.978.517/0951796".
	ISBNA
	// GTIN14 is the 14-digit logistics form with a packaging indicator,
	// e.g. "09785170951796".
	GTIN14
	// ISMN is the hyphenated printed-music form, e.g. "979-0-2600-0043-8".
	ISMN
	// MusicEAN is the bare 13-digit form of an ISMN, e.g. "9790260000438".
	MusicEAN
)

// Subset returns the compatibility subset the type belongs to.
func (t Type) Subset() Subset {
	switch t {
	case ISMN, MusicEAN:
		return MusicSubset
	}
	return DefaultSubset
}

// Short returns true for the legacy 10-digit family, which carries no GS1
// prefix of its own and uses the mod-11 check digit.
func (t Type) Short() bool {
	return t == ISBN10 || t == EAN10
}

// Separated returns true for types in which a separator character is
// semantically meaningful and worth preserving across a round trip.
func (t Type) Separated() bool {
	return t == ISBN13 || t == ISBN10 || t == ISMN
}

func (t Type) String() string {
	switch t {
	case ISBN13:
		return "ISBN-13"
	case ISBN10:
		return "ISBN-10"
	case EAN13:
		return "EAN-13"
	case EAN10:
		return "EAN-10"
	case ISBNA:
		return "ISBN-A"
	case GTIN14:
		return "GTIN-14"
	case ISMN:
		return "ISMN"
	case MusicEAN:
		return "Music-EAN"
	}
	return "unknown type: " + strconv.Itoa(int(t))
}
