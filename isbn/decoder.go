package isbn

import "strings"

// Decoder bundles a RangeProvider with the common parse/convert/validate
// call patterns. The zero value works for music codes only; everything else
// needs a provider.
//
// Decoders are stateless beyond the provider reference and safe for
// concurrent use.
type Decoder struct {
	Ranges RangeProvider
}

// NewDecoder returns a Decoder backed by the given provider.
func NewDecoder(provider RangeProvider) Decoder {
	return Decoder{Ranges: provider}
}

// Parse decomposes a code and verifies its check digit.
func (d Decoder) Parse(code string) (*BookCode, error) {
	return Parse(code, d.Ranges, true)
}

// ParseUnchecked decomposes a code without requiring or verifying a check
// digit.
func (d Decoder) ParseUnchecked(code string) (*BookCode, error) {
	return Parse(code, d.Ranges, false)
}

// Convert parses a code and renders it as the target type, preserving the
// input's separator where the target retains one.
func (d Decoder) Convert(code string, target Type) (string, error) {
	c, err := d.Parse(code)
	if err != nil {
		return "", err
	}
	return c.ToFormat(target, true)
}

// ConvertToISBN13 parses a code and renders it as an ISBN-13 with the given
// separator.
func (d Decoder) ConvertToISBN13(code, sep string) (string, error) {
	c, err := d.Parse(code)
	if err != nil {
		return "", err
	}
	return c.ToISBN13(sep)
}

// ConvertToISBN10 parses a code and renders it as a legacy ISBN-10 with the
// given separator.
func (d Decoder) ConvertToISBN10(code, sep string) (string, error) {
	c, err := d.Parse(code)
	if err != nil {
		return "", err
	}
	return c.ToISBN10(sep)
}

// ConvertToEAN13 parses a code and renders it as a bare 13-digit EAN.
func (d Decoder) ConvertToEAN13(code string) (string, error) {
	return d.Convert(code, EAN13)
}

// ConvertToEAN10 parses a code and renders it as a bare 10-digit EAN.
func (d Decoder) ConvertToEAN10(code string) (string, error) {
	return d.Convert(code, EAN10)
}

// ConvertToISBNA parses a code and renders it as a DOI-style ISBN-A.
func (d Decoder) ConvertToISBNA(code string) (string, error) {
	return d.Convert(code, ISBNA)
}

// ConvertToISMN parses a code and renders it as a hyphenated ISMN.
func (d Decoder) ConvertToISMN(code string) (string, error) {
	return d.Convert(code, ISMN)
}

// ConvertToMusicEAN parses a code and renders it as a bare music EAN.
func (d Decoder) ConvertToMusicEAN(code string) (string, error) {
	return d.Convert(code, MusicEAN)
}

// ConvertToGTIN14 parses a code and renders it as a GTIN-14 with the given
// packaging indicator (-1 to reuse one parsed from a GTIN-14 input).
func (d Decoder) ConvertToGTIN14(code string, indicator int) (string, error) {
	c, err := d.Parse(code)
	if err != nil {
		return "", err
	}
	return c.ToGTIN14(indicator)
}

// ValidateAs parses a code, requires its detected type to equal t, and then
// requires the code to round-trip exactly through the t formatter. A type
// disagreement fails with 3-2; a formatting disagreement, or a conversion
// failure during the round-trip probe, fails with 3-1.
func (d Decoder) ValidateAs(code string, t Type) (*BookCode, error) {
	c, err := d.Parse(code)
	if err != nil {
		return nil, err
	}
	if c.Type() != t {
		return nil, validateErrorf(subTypeMismatch,
			"code >%s< is a %s, not a %s", strings.TrimSpace(code), c.Type(), t)
	}
	return d.roundTrip(c, code, t)
}

// ValidateAsAny parses a code and requires it to round-trip exactly through
// its own detected type's formatter.
func (d Decoder) ValidateAsAny(code string) (*BookCode, error) {
	c, err := d.Parse(code)
	if err != nil {
		return nil, err
	}
	return d.roundTrip(c, code, c.Type())
}

func (d Decoder) roundTrip(c *BookCode, code string, t Type) (*BookCode, error) {
	trimmed := strings.TrimSpace(code)
	formatted, err := c.ToFormat(t, true)
	if err != nil {
		return nil, validateError(subFormatMismatch, err,
			"code >%s< cannot be rendered as %s: %v", trimmed, t, err)
	}
	if formatted != trimmed {
		return nil, validateErrorf(subFormatMismatch,
			"code >%s< is not in canonical %s form (expected %q)", trimmed, t, formatted)
	}
	return c, nil
}
