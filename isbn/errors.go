package isbn

import "fmt"

// Category is one of the four stable error families. The numeric values are
// a compatibility contract and must not be renumbered.
type Category int

const (
	ParseFailure      = Category(1)
	IntegrityFailure  = Category(2)
	ValidationFailure = Category(3)
	ConversionFailure = Category(4)
)

func (c Category) String() string {
	switch c {
	case ParseFailure:
		return "parse error"
	case IntegrityFailure:
		return "integrity error"
	case ValidationFailure:
		return "validation error"
	case ConversionFailure:
		return "conversion error"
	}
	return fmt.Sprintf("unknown error category %d", int(c))
}

// Stable sub-codes within each category. Like the categories, these are a
// compatibility contract; messages may change, codes may not.
const (
	subEmptyCode            = 1
	subUnexpectedCharacters = 2
	subWrongLength          = 3
	subUnknownGS1Element    = 4
	subUnknownGroupElement  = 5
	subNoMatchingRange      = 6
	subUnreservedRange      = 7

	subChecksumMismatch  = 1
	subMissingCheckDigit = 2
	subCannotCompare     = 3

	subFormatMismatch = 1
	subTypeMismatch   = 2

	subNewGS1Unsupported  = 1
	subMissingIndicator   = 2
	subIncompatibleSubset = 3
)

// Error is the error type for everything this package reports. Callers
// should match with errors.Is against the exported Err* values, or inspect
// Code() for the stable "category-sub" pair; the message text is for humans
// and makes no stability promise. Offending input locations are marked with
// ">" and "<" in the message.
type Error struct {
	category Category
	sub      int
	msg      string
	cause    error
}

// Matchers for use with errors.Is. Two *Error values match when their
// category and sub-code agree, regardless of message.
var (
	ErrEmptyCode            = &Error{category: ParseFailure, sub: subEmptyCode}
	ErrUnexpectedCharacters = &Error{category: ParseFailure, sub: subUnexpectedCharacters}
	ErrWrongLength          = &Error{category: ParseFailure, sub: subWrongLength}
	ErrUnknownGS1Element    = &Error{category: ParseFailure, sub: subUnknownGS1Element}
	ErrUnknownGroupElement  = &Error{category: ParseFailure, sub: subUnknownGroupElement}
	ErrNoMatchingRange      = &Error{category: ParseFailure, sub: subNoMatchingRange}
	ErrUnreservedRange      = &Error{category: ParseFailure, sub: subUnreservedRange}

	ErrChecksumMismatch  = &Error{category: IntegrityFailure, sub: subChecksumMismatch}
	ErrMissingCheckDigit = &Error{category: IntegrityFailure, sub: subMissingCheckDigit}
	ErrCannotCompare     = &Error{category: IntegrityFailure, sub: subCannotCompare}

	ErrFormatMismatch = &Error{category: ValidationFailure, sub: subFormatMismatch}
	ErrTypeMismatch   = &Error{category: ValidationFailure, sub: subTypeMismatch}

	ErrNewGS1Unsupported  = &Error{category: ConversionFailure, sub: subNewGS1Unsupported}
	ErrMissingIndicator   = &Error{category: ConversionFailure, sub: subMissingIndicator}
	ErrIncompatibleSubset = &Error{category: ConversionFailure, sub: subIncompatibleSubset}
)

// Code returns the stable "category-sub" code, e.g. "1-6".
func (e *Error) Code() string {
	return fmt.Sprintf("%d-%d", int(e.category), e.sub)
}

// Kind returns the error's category.
func (e *Error) Kind() Category {
	return e.category
}

// Sub returns the error's sub-code within its category.
func (e *Error) Sub() int {
	return e.sub
}

func (e *Error) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("%s %s", e.category, e.Code())
	}
	return fmt.Sprintf("%s %s: %s", e.category, e.Code(), e.msg)
}

// Is reports whether target is an *Error with the same category and
// sub-code, which makes the Err* matchers work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.category == e.category && t.sub == e.sub
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Cause supports github.com/pkg/errors traversal.
func (e *Error) Cause() error {
	return e.cause
}

func parseErrorf(sub int, format string, args ...interface{}) *Error {
	return &Error{category: ParseFailure, sub: sub, msg: fmt.Sprintf(format, args...)}
}

func integrityErrorf(sub int, format string, args ...interface{}) *Error {
	return &Error{category: IntegrityFailure, sub: sub, msg: fmt.Sprintf(format, args...)}
}

func integrityError(sub int, cause error, format string, args ...interface{}) *Error {
	return &Error{category: IntegrityFailure, sub: sub, msg: fmt.Sprintf(format, args...), cause: cause}
}

func validateErrorf(sub int, format string, args ...interface{}) *Error {
	return &Error{category: ValidationFailure, sub: sub, msg: fmt.Sprintf(format, args...)}
}

func validateError(sub int, cause error, format string, args ...interface{}) *Error {
	return &Error{category: ValidationFailure, sub: sub, msg: fmt.Sprintf(format, args...), cause: cause}
}

func convertErrorf(sub int, format string, args ...interface{}) *Error {
	return &Error{category: ConversionFailure, sub: sub, msg: fmt.Sprintf(format, args...)}
}

// highlight returns s with ">" and "<" markers around s[start:end], used to
// point at the offending part of an input in error messages.
func highlight(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		start = end
	}
	return s[:start] + ">" + s[start:end] + "<" + s[end:]
}
