package isbn

import (
	"errors"
	"testing"

	"github.com/intel/rsp-sw-toolkit-im-suite-expect"
)

// expectCode asserts that err is a *Error matching the given matcher and
// carrying the given stable code.
func expectCode(t *testing.T, err error, match *Error, code string) {
	t.Helper()
	w := expect.WrapT(t)
	w.As(err).ShouldBeTrue(errors.Is(err, match))
	var e *Error
	w.As(err).ShouldBeTrue(errors.As(err, &e))
	w.ShouldBeEqual(e.Code(), code)
}

func TestErrorCodes(t *testing.T) {
	w := expect.WrapT(t)

	for _, tt := range []struct {
		err  *Error
		code string
	}{
		{ErrEmptyCode, "1-1"},
		{ErrUnexpectedCharacters, "1-2"},
		{ErrWrongLength, "1-3"},
		{ErrUnknownGS1Element, "1-4"},
		{ErrUnknownGroupElement, "1-5"},
		{ErrNoMatchingRange, "1-6"},
		{ErrUnreservedRange, "1-7"},
		{ErrChecksumMismatch, "2-1"},
		{ErrMissingCheckDigit, "2-2"},
		{ErrCannotCompare, "2-3"},
		{ErrFormatMismatch, "3-1"},
		{ErrTypeMismatch, "3-2"},
		{ErrNewGS1Unsupported, "4-1"},
		{ErrMissingIndicator, "4-2"},
		{ErrIncompatibleSubset, "4-3"},
	} {
		w.As(tt.err).ShouldBeEqual(tt.err.Code(), tt.code)
	}
}

func TestErrorMatching(t *testing.T) {
	w := expect.WrapT(t)

	err := parseErrorf(subNoMatchingRange, "no range matches >%d<", 5200951)
	w.ShouldBeTrue(errors.Is(err, ErrNoMatchingRange))
	w.ShouldBeFalse(errors.Is(err, ErrUnreservedRange))
	w.ShouldBeFalse(errors.Is(err, ErrChecksumMismatch))
	w.ShouldBeEqual(err.Kind(), ParseFailure)
	w.ShouldBeEqual(err.Sub(), 6)
	w.ShouldContainStr(err.Error(), "1-6")
	w.ShouldContainStr(err.Error(), ">5200951<")

	// same sub-code in a different category must not match
	w.ShouldBeFalse(errors.Is(integrityErrorf(subChecksumMismatch, "x"), ErrFormatMismatch))
}

func TestErrorWrapping(t *testing.T) {
	w := expect.WrapT(t)

	cause := errors.New("not a decimal digit")
	err := integrityError(subCannotCompare, cause, "cannot verify: %v", cause)
	w.ShouldBeTrue(errors.Is(err, ErrCannotCompare))
	w.ShouldBeEqual(errors.Unwrap(err), cause)
	w.ShouldBeEqual(err.Cause(), cause)
}

func TestHighlight(t *testing.T) {
	w := expect.WrapT(t)
	w.ShouldBeEqual(highlight("9785200951796", 3, 10), "978>5200951<796")
	w.ShouldBeEqual(highlight("abc", 0, 3), ">abc<")
	w.ShouldBeEqual(highlight("abc", 2, 99), "ab>c<")
}
