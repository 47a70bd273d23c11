package isbn

import "github.com/pkg/errors"

// The check digit engine works on bare digit strings: no separators, no
// check digit appended. Stripping is the caller's job (the parser does it
// before ever reaching these functions).

// CheckDigit10 computes the legacy ISBN-10 check digit over the rightmost
// nine digits of the input: weighted sum with weights 10 down to 2, then
// (11 - sum mod 11) mod 11, where 10 renders as 'X'.
func CheckDigit10(digits string) (byte, error) {
	if len(digits) < 9 {
		return 0, errors.Errorf("ISBN-10 check digits need at least 9 digits, but %q has %d", digits, len(digits))
	}
	core := digits[len(digits)-9:]
	sum := 0
	for i := 0; i < len(core); i++ {
		if core[i] < '0' || core[i] > '9' {
			return 0, errors.Errorf("not a decimal digit: %s", highlight(core, i, i+1))
		}
		sum += int(core[i]-'0') * (10 - i)
	}
	if d := (11 - sum%11) % 11; d != 10 {
		return byte('0' + d), nil
	}
	return 'X', nil
}

// CheckDigitGS1 computes the GS1 mod-10 check digit used by the 13-digit
// family and GTIN-14: weights alternate 3,1,3,1... anchored at the
// rightmost digit, so the same rule serves 12-digit ISBN-13 cores and
// 13-digit GTIN-14 cores alike. At least 12 digits are required.
func CheckDigitGS1(digits string) (byte, error) {
	if len(digits) < 12 {
		return 0, errors.Errorf("GS1 check digits need at least 12 digits, but %q has %d", digits, len(digits))
	}
	sum, weight := 0, 3
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, errors.Errorf("not a decimal digit: %s", highlight(digits, i, i+1))
		}
		sum += int(digits[i]-'0') * weight
		weight = 4 - weight
	}
	return byte('0' + (10-sum%10)%10), nil
}

// Compare10 recomputes the ISBN-10 check digit for digits and compares it
// to the supplied one ('0'-'9' or 'X').
func Compare10(digits string, supplied byte) (bool, error) {
	want, err := CheckDigit10(digits)
	if err != nil {
		return false, err
	}
	return want == supplied, nil
}

// CompareGS1 recomputes the GS1 check digit for digits and compares it to
// the supplied one.
func CompareGS1(digits string, supplied byte) (bool, error) {
	want, err := CheckDigitGS1(digits)
	if err != nil {
		return false, err
	}
	return want == supplied, nil
}

// AssertCheckDigit recomputes the check digit for digits (GS1 weighting if
// gs1, ISBN-10 weighting otherwise) and fails with an IntegrityFailure when
// it does not match supplied, or when digits are malformed for the
// computation.
func AssertCheckDigit(digits string, supplied byte, gs1 bool) error {
	var want byte
	var err error
	if gs1 {
		want, err = CheckDigitGS1(digits)
	} else {
		want, err = CheckDigit10(digits)
	}
	if err != nil {
		return integrityError(subCannotCompare, err, "cannot verify the check digit of %q: %v", digits, err)
	}
	if want != supplied {
		return integrityErrorf(subChecksumMismatch, "check digit >%c< does not match the computed %c", supplied, want)
	}
	return nil
}
