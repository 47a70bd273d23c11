// Package isbn parses, validates, and converts identifier codes from the
// ISBN family: ISBN-13, ISBN-10, ISMN, ISBN-A, GTIN-14, and their EAN
// barcode representations.
//
// The package works from un-annotated digit strings. Nothing about a code's
// type, separator style, or check digit is declared by the caller; all of it
// is inferred from the raw string. A successful parse produces a BookCode: a
// fully decomposed identifier holding the GS1 prefix, registration group,
// registrant, and publication elements together with their element widths.
// The widths matter because the ISBN scheme is not fixed-width -- the split
// between registrant and publication depends on a prefix-keyed allocation
// table maintained by the International ISBN Agency, and a registrant such
// as "04" is a different allocation than "4" even though both have the same
// integer value.
//
// Allocation tables are supplied through the RangeProvider interface. The
// sibling ranges package ships a default provider with a bundled table and
// optional remote refresh; any implementation that can answer
// GetRanges("978") and GetRanges("978-1") style lookups will do. The one
// exception is printed music: the ISMN registrant allocation is a fixed
// constant of the scheme and is built into this package.
//
// Conversions are only defined within a compatibility subset. The music
// types (ISMN and its EAN form) convert freely between each other but never
// to or from the book types, and legacy 10-digit output is only possible for
// codes in the default 978 prefix. Each failure mode carries a stable
// "category-sub" code (see Error) so callers can dispatch on the exact
// condition rather than on message text.
//
// Parsing and formatting are pure computations over immutable values and
// are safe for concurrent use; any synchronization concerns live behind the
// RangeProvider.
package isbn
