/* Apache v2 license
 * Copyright (C) 2019 Intel Corporation
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package isbn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// BookCode is a fully decomposed identifier code. It is produced only by
// Parse and is immutable afterwards: the conversion methods derive new
// strings and never touch the receiver.
//
// The group, registrant, and publication elements are stored as integer
// values plus element widths, because leading zeros are allocation-relevant:
// registrant "04" (value 4, width 2) is a different registrant than "4"
// (value 4, width 1). Always render elements through the *Element accessors.
type BookCode struct {
	typ    Type
	prefix int

	group, registrant, publication                int
	groupWidth, registrantWidth, publicationWidth int

	separator  byte // 0 when no separator is recorded
	indicator  int  // GTIN-14 packaging indicator; -1 when absent
	checkDigit byte // 0 when the input carried none
	agency     string
}

// Type returns the detected representation of the original input.
func (c *BookCode) Type() Type {
	return c.typ
}

// Agency returns the name of the allocating agency resolved during parsing,
// e.g. "English language" or "Musicland".
func (c *BookCode) Agency() string {
	return c.agency
}

// Separator returns the separator recorded from the input, or "" when the
// detected type does not retain one.
func (c *BookCode) Separator() string {
	if c.separator == 0 {
		return ""
	}
	return string(c.separator)
}

// HasCheckDigit returns true if the input carried a check digit.
func (c *BookCode) HasCheckDigit() bool {
	return c.checkDigit != 0
}

// CheckDigit returns the check digit character from the input ('0'-'9', or
// 'X' in the 10-digit family), or 0 when the input carried none.
func (c *BookCode) CheckDigit() byte {
	return c.checkDigit
}

// PackagingIndicator returns the GTIN-14 packaging indicator (0-8), or -1
// when the input was not a GTIN-14.
func (c *BookCode) PackagingIndicator() int {
	return c.indicator
}

// Prefix returns the GS1 prefix value (978 for the 10-digit family).
func (c *BookCode) Prefix() int {
	return c.prefix
}

// Group returns the registration group value; see GroupElement for the
// width-preserving form.
func (c *BookCode) Group() int {
	return c.group
}

// Registrant returns the registrant value; see RegistrantElement for the
// width-preserving form.
func (c *BookCode) Registrant() int {
	return c.registrant
}

// Publication returns the publication number value; see PublicationElement
// for the width-preserving form.
func (c *BookCode) Publication() int {
	return c.publication
}

// PrefixElement returns the GS1 prefix as its 3-digit element string.
func (c *BookCode) PrefixElement() string {
	return fmt.Sprintf("%03d", c.prefix)
}

// GroupElement returns the registration group element, zero-padded to its
// allocated width.
func (c *BookCode) GroupElement() string {
	return fmt.Sprintf("%0[1]*d", c.groupWidth, c.group)
}

// RegistrantElement returns the registrant element, zero-padded to its
// allocated width.
func (c *BookCode) RegistrantElement() string {
	return fmt.Sprintf("%0[1]*d", c.registrantWidth, c.registrant)
}

// PublicationElement returns the publication number element, zero-padded to
// its width.
func (c *BookCode) PublicationElement() string {
	return fmt.Sprintf("%0[1]*d", c.publicationWidth, c.publication)
}

// core9 is the 9-digit book number element: group+registrant+publication.
func (c *BookCode) core9() string {
	return c.GroupElement() + c.RegistrantElement() + c.PublicationElement()
}

// core12 is the prefix-qualified 12-digit core of the 13-digit family.
func (c *BookCode) core12() string {
	return c.PrefixElement() + c.core9()
}

// checkDigitInput returns the digit string the stored check digit covers
// and whether the GS1 weighting applies to it.
func (c *BookCode) checkDigitInput() (digits string, gs1 bool) {
	switch {
	case c.typ == GTIN14:
		return strconv.Itoa(c.indicator) + c.core12(), true
	case c.typ.Short():
		return c.core9(), false
	}
	return c.core12(), true
}

// IsCheckDigitValid recomputes the check digit over the stored elements and
// compares it to the one from the input. It returns false when no check
// digit was stored, and swallows any computation precondition failure as
// false rather than propagating it.
func (c *BookCode) IsCheckDigitValid() bool {
	return c.AssertCheckDigit() == nil
}

// AssertCheckDigit is the failing form of IsCheckDigitValid: it reports a
// missing check digit, an uncomparable core, or a mismatch as an
// IntegrityFailure.
func (c *BookCode) AssertCheckDigit() error {
	if c.checkDigit == 0 {
		return integrityErrorf(subMissingCheckDigit, "the %s code has no check digit to verify", c.typ)
	}
	digits, gs1 := c.checkDigitInput()
	return AssertCheckDigit(digits, c.checkDigit, gs1)
}

// compatible fails with ConversionFailure 4-3 unless the receiver's type
// and the target share a compatibility subset.
func (c *BookCode) compatible(target Type) error {
	if c.typ.Subset() != target.Subset() {
		return convertErrorf(subIncompatibleSubset,
			"cannot convert %s (%s subset) to %s (%s subset)",
			c.typ, c.typ.Subset(), target, target.Subset())
	}
	return nil
}

// format13 renders any of the 13-digit forms: elements joined by sep with a
// fresh GS1 check digit appended.
func (c *BookCode) format13(target Type, sep string) (string, error) {
	if err := c.compatible(target); err != nil {
		return "", err
	}
	cd, err := CheckDigitGS1(c.core12())
	if err != nil {
		return "", err
	}
	parts := []string{
		c.PrefixElement(), c.GroupElement(), c.RegistrantElement(),
		c.PublicationElement(), string(cd),
	}
	return strings.Join(parts, sep), nil
}

// ToISBN13 renders the code as an ISBN-13 with the given separator (use ""
// for none).
func (c *BookCode) ToISBN13(sep string) (string, error) {
	return c.format13(ISBN13, sep)
}

// ToEAN13 renders the code as a bare 13-digit EAN.
func (c *BookCode) ToEAN13() (string, error) {
	return c.format13(EAN13, "")
}

// ToISMN renders the code as a hyphenated ISMN. Music codes only.
func (c *BookCode) ToISMN() (string, error) {
	return c.format13(ISMN, "-")
}

// ToMusicEAN renders the code as the bare 13-digit EAN form of an ISMN.
// Music codes only.
func (c *BookCode) ToMusicEAN() (string, error) {
	return c.format13(MusicEAN, "")
}

// format10 renders the legacy 10-digit forms. Only codes in the default 978
// prefix existed before GS1 prefixes, so anything else fails with 4-1.
func (c *BookCode) format10(target Type, sep string) (string, error) {
	if err := c.compatible(target); err != nil {
		return "", err
	}
	if c.prefix != DefaultPrefix {
		return "", convertErrorf(subNewGS1Unsupported,
			"GS1 prefix %s has no legacy 10-digit form (only %d does)",
			c.PrefixElement(), DefaultPrefix)
	}
	cd, err := CheckDigit10(c.core9())
	if err != nil {
		return "", err
	}
	parts := []string{
		c.GroupElement(), c.RegistrantElement(), c.PublicationElement(), string(cd),
	}
	return strings.Join(parts, sep), nil
}

// ToISBN10 renders the code as a legacy ISBN-10 with the given separator.
func (c *BookCode) ToISBN10(sep string) (string, error) {
	return c.format10(ISBN10, sep)
}

// ToEAN10 renders the code as the bare 10-digit form.
func (c *BookCode) ToEAN10() (string, error) {
	return c.format10(EAN10, "")
}

// ToISBNA renders the code as a DOI-style actionable ISBN:
// "10.<prefix>.<group><registrant>/<publication><checkdigit>".
func (c *BookCode) ToISBNA() (string, error) {
	if err := c.compatible(ISBNA); err != nil {
		return "", err
	}
	cd, err := CheckDigitGS1(c.core12())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("10.%s.%s%s/%s%c",
		c.PrefixElement(), c.GroupElement(), c.RegistrantElement(),
		c.PublicationElement(), cd), nil
}

// ToGTIN14 renders the code as a GTIN-14 with the given packaging
// indicator. Pass -1 to use the indicator stored from a parsed GTIN-14;
// the indicator must resolve to 0-8.
func (c *BookCode) ToGTIN14(indicator int) (string, error) {
	if err := c.compatible(GTIN14); err != nil {
		return "", err
	}
	if indicator < 0 {
		indicator = c.indicator
	}
	if indicator < 0 || indicator > 8 {
		return "", convertErrorf(subMissingIndicator,
			"a packaging indicator in [0,8] is required for GTIN-14, but have %d", indicator)
	}
	digits := strconv.Itoa(indicator) + c.core12()
	cd, err := CheckDigitGS1(digits)
	if err != nil {
		return "", err
	}
	return digits + string(cd), nil
}

// ToFormat renders the code as the target type. Separator-bearing targets
// use the separator recorded from the input when keepSeparator is true and
// one exists; otherwise they use a hyphen.
func (c *BookCode) ToFormat(target Type, keepSeparator bool) (string, error) {
	sep := "-"
	if keepSeparator && c.separator != 0 {
		sep = string(c.separator)
	}
	switch target {
	case ISBN13:
		return c.ToISBN13(sep)
	case ISBN10:
		return c.ToISBN10(sep)
	case EAN13:
		return c.ToEAN13()
	case EAN10:
		return c.ToEAN10()
	case ISBNA:
		return c.ToISBNA()
	case GTIN14:
		return c.ToGTIN14(-1)
	case ISMN:
		return c.ToISMN()
	case MusicEAN:
		return c.ToMusicEAN()
	}
	return "", errors.Errorf("no conversion rule for %s", target)
}

// ToSourceFormat renders the code back into its own detected type,
// preserving the recorded separator. For input that was already canonically
// formatted, this round-trips to the exact original string.
func (c *BookCode) ToSourceFormat() (string, error) {
	return c.ToFormat(c.typ, true)
}

// String renders the code in its source format, or a diagnostic form if
// that fails.
func (c *BookCode) String() string {
	s, err := c.ToSourceFormat()
	if err != nil {
		return fmt.Sprintf("%s(%s-%s-%s-%s)", c.typ,
			c.PrefixElement(), c.GroupElement(), c.RegistrantElement(), c.PublicationElement())
	}
	return s
}
