package isbn

import "strings"

// separatorStripper removes every character treated as a separator. Note
// that '.' and '/' are included so the ISBN-A form reduces to bare digits
// like everything else.
var separatorStripper = strings.NewReplacer(
	"-", "",
	" ", "",
	"_", "",
	"/", "",
	".", "",
)

// parser threads a residual string and a partially filled record through
// the parse steps. Each step consumes part of the residual or fails with a
// terminal error; there is no retry or recovery.
type parser struct {
	src    string // trimmed original input, for error messages
	rest   string // residual, shrinking as elements are consumed
	hadSep bool
	sep    byte // tentatively detected separator
	isbnA  bool // input carried the DOI "10." marker
	verify bool

	provider RangeProvider
	rec      BookCode
}

// Parse decomposes one identifier code. The code's type, separator style,
// and check digit are inferred from the string itself; provider supplies
// the variable-length allocation tables (music codes never consult it).
// With verify set, the check digit must be present and consistent.
//
// On success the returned BookCode is complete; on any failure it is
// discarded and a *Error is returned instead.
func Parse(code string, provider RangeProvider, verify bool) (*BookCode, error) {
	p := &parser{provider: provider, verify: verify}
	p.rec.indicator = -1

	steps := []func() error{
		p.trim,
		p.normalizePrefix,
		p.detectSeparator,
		p.stripSeparators,
		p.extractType,
		p.assertIntegrity,
		p.extractPrefix,
		p.resolveGroup,
		p.resolveRegistrant,
		p.extractPublication,
	}
	p.rest = code
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return &p.rec, nil
}

func (p *parser) trim() error {
	p.rest = strings.TrimSpace(p.rest)
	if p.rest == "" {
		return parseErrorf(subEmptyCode, "the code is empty")
	}
	p.src = p.rest
	return nil
}

// normalizePrefix strips the DOI "10." marker and expands the legacy ISMN
// "M-" marker to its EAN prefix. The DOI check runs first: when both could
// apply, ISBN-A detection wins.
func (p *parser) normalizePrefix() error {
	if strings.HasPrefix(p.rest, "10.") {
		p.isbnA = true
		p.rest = p.rest[len("10."):]
	}
	if strings.HasPrefix(p.rest, "M-") {
		p.rest = musicEANPrefix + p.rest[len("M-"):]
	}
	return nil
}

// detectSeparator picks the "natural" separator before any stripping: a
// space only when the input holds spaces and no hyphens.
func (p *parser) detectSeparator() error {
	if strings.ContainsRune(p.rest, ' ') && !strings.ContainsRune(p.rest, '-') {
		p.sep = ' '
	} else {
		p.sep = '-'
	}
	return nil
}

func (p *parser) stripSeparators() error {
	stripped := separatorStripper.Replace(p.rest)
	p.hadSep = stripped != p.rest
	p.rest = stripped
	return nil
}

// extractType infers the code's type from the residual length and prefix
// markers, and strips the check digit (and GTIN-14 packaging indicator)
// from the residual.
func (p *parser) extractType() error {
	switch n := len(p.rest); {
	case n == 12 || n == 13:
		switch {
		case p.isbnA:
			p.rec.typ = ISBNA
		case strings.HasPrefix(p.rest, musicEANPrefix):
			if p.hadSep {
				p.rec.typ = ISMN
			} else {
				p.rec.typ = MusicEAN
			}
		case p.hadSep:
			p.rec.typ = ISBN13
		default:
			p.rec.typ = EAN13
		}
		if n == 13 {
			cd := p.rest[n-1]
			if !isDigit(cd) {
				return parseErrorf(subUnexpectedCharacters,
					"the check digit must be a decimal digit: %s", highlight(p.rest, n-1, n))
			}
			p.rec.checkDigit = cd
			p.rest = p.rest[:n-1]
		}

	case n == 9 || n == 10:
		if p.hadSep {
			p.rec.typ = ISBN10
		} else {
			p.rec.typ = EAN10
		}
		if n == 10 {
			cd := p.rest[n-1]
			if cd == 'x' {
				cd = 'X'
			}
			if !isDigit(cd) && cd != 'X' {
				return parseErrorf(subUnexpectedCharacters,
					"the check digit must be a decimal digit or 'X': %s", highlight(p.rest, n-1, n))
			}
			p.rec.checkDigit = cd
			p.rest = p.rest[:n-1]
		}

	case n == 14:
		if p.hadSep {
			return parseErrorf(subUnexpectedCharacters,
				"separators are not allowed in a GTIN-14: >%s<", p.src)
		}
		p.rec.typ = GTIN14
		if ind := p.rest[0]; ind < '0' || ind > '8' {
			return parseErrorf(subUnexpectedCharacters,
				"the packaging indicator must be a digit in [0,8]: %s", highlight(p.rest, 0, 1))
		}
		if cd := p.rest[n-1]; !isDigit(cd) {
			return parseErrorf(subUnexpectedCharacters,
				"the check digit must be a decimal digit: %s", highlight(p.rest, n-1, n))
		}
		p.rec.indicator = int(p.rest[0] - '0')
		p.rec.checkDigit = p.rest[n-1]
		p.rest = p.rest[1 : n-1]

	default:
		return parseErrorf(subWrongLength,
			"cannot recognize a code of %d digits: >%s<", n, p.rest)
	}

	// only the separated forms retain one; ISMN always renders hyphens
	if p.rec.typ.Separated() {
		if p.rec.typ == ISMN {
			p.rec.separator = '-'
		} else {
			p.rec.separator = p.sep
		}
	}
	return nil
}

// assertIntegrity verifies the extracted check digit against the full
// residual digit string before segmentation begins. Skipped entirely when
// the caller opts out of verification.
func (p *parser) assertIntegrity() error {
	if !p.verify {
		return nil
	}
	if p.rec.checkDigit == 0 {
		return integrityErrorf(subMissingCheckDigit,
			"code >%s< carries no check digit to verify", p.src)
	}
	digits := p.rest
	if p.rec.typ == GTIN14 {
		digits = string(byte('0'+p.rec.indicator)) + digits
	}
	return AssertCheckDigit(digits, p.rec.checkDigit, !p.rec.typ.Short())
}

// extractPrefix consumes the 3-digit GS1 prefix, or defaults it to 978 for
// the prefix-less 10-digit family.
func (p *parser) extractPrefix() error {
	if p.rec.typ.Short() {
		p.rec.prefix = DefaultPrefix
		return nil
	}
	pfx, ok := digitsValue(p.rest[:3])
	if !ok {
		return parseErrorf(subUnexpectedCharacters,
			"the GS1 prefix must be numeric: %s", highlight(p.rest, 0, 3))
	}
	p.rec.prefix = pfx
	p.rest = p.rest[3:]
	return nil
}

// resolveGroup determines the registration group element width via the
// prefix's allocation table and consumes the group. The music subset has a
// fixed single-digit group.
func (p *parser) resolveGroup() error {
	if p.rec.typ.Subset() == MusicSubset {
		return p.consume(1, &p.rec.group, &p.rec.groupWidth, "registration group")
	}

	point, ok := digitsValue(leading(p.rest, 7))
	if !ok {
		return parseErrorf(subUnexpectedCharacters,
			"the registration group must be numeric: >%s<", p.rest)
	}
	key := GS1Key(p.rec.prefix)
	table := p.getRanges(key)
	if table == nil {
		return parseErrorf(subUnknownGS1Element,
			"no allocation table is known for GS1 element >%s<", key)
	}
	length, err := p.findLength(table, key, point)
	if err != nil {
		return err
	}
	return p.consume(length, &p.rec.group, &p.rec.groupWidth, "registration group")
}

// resolveRegistrant determines the registrant element width via the
// prefix-group allocation table (the fixed Musicland table for the music
// subset), consumes the registrant, and records the agency name.
//
// The lookup point is the residual right-padded with '0' to 7 digits. The
// padding biases short residuals toward the low end of a band; that bias is
// part of the allocation rule, not an accident.
func (p *parser) resolveRegistrant() error {
	table := &musicRegistrantRanges
	key := "ISMN"
	if p.rec.typ.Subset() != MusicSubset {
		key = GroupKey(p.rec.prefix, p.rec.GroupElement())
		if table = p.getRanges(key); table == nil {
			return parseErrorf(subUnknownGroupElement,
				"no allocation table is known for group element >%s<", key)
		}
	}

	point, ok := digitsValue(padRight(leading(p.rest, 7), 7))
	if !ok {
		return parseErrorf(subUnexpectedCharacters,
			"the registrant must be numeric: >%s<", p.rest)
	}
	length, err := p.findLength(table, key, point)
	if err != nil {
		return err
	}
	if err := p.consume(length, &p.rec.registrant, &p.rec.registrantWidth, "registrant"); err != nil {
		return err
	}
	p.rec.agency = table.Agency
	return nil
}

// extractPublication takes everything left as the publication number.
func (p *parser) extractPublication() error {
	v, ok := digitsValue(p.rest)
	if !ok {
		return parseErrorf(subUnexpectedCharacters,
			"the publication number must be a non-empty digit string: >%s<", p.rest)
	}
	p.rec.publication = v
	p.rec.publicationWidth = len(p.rest)
	p.rest = ""
	return nil
}

// getRanges guards against a missing provider; music codes are the only
// ones parseable without one.
func (p *parser) getRanges(key string) *RangeTable {
	if p.provider == nil {
		return nil
	}
	return p.provider.GetRanges(key)
}

// findLength maps a lookup point to an element length via the table,
// reporting unmatched and explicitly unallocated points.
func (p *parser) findLength(table *RangeTable, key string, point int) (int, error) {
	r, ok := table.Find(point)
	if !ok {
		return 0, parseErrorf(subNoMatchingRange,
			"no range in the %s table (%s) matches >%d<", key, table.Agency, point)
	}
	if r.Length == 0 {
		return 0, parseErrorf(subUnreservedRange,
			"range [%d, %d] of the %s table is not allocated", r.Start, r.End, key)
	}
	return r.Length, nil
}

// consume takes the leading n digits of the residual as the given element.
func (p *parser) consume(n int, value, width *int, element string) error {
	if n > len(p.rest) {
		return parseErrorf(subUnexpectedCharacters,
			"the %s element needs %d digits, but only >%s< remains", element, n, p.rest)
	}
	v, ok := digitsValue(p.rest[:n])
	if !ok {
		return parseErrorf(subUnexpectedCharacters,
			"the %s element must be numeric: %s", element, highlight(p.rest, 0, n))
	}
	*value = v
	*width = n
	p.rest = p.rest[n:]
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// digitsValue parses a non-empty string of decimal digits. Unlike
// strconv.Atoi it rejects signs and whitespace outright.
func digitsValue(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v := 0
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
		v = v*10 + int(s[i]-'0')
	}
	return v, true
}

func leading(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat("0", n-len(s))
}
