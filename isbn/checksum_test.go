/* Apache v2 license
 * Copyright (C) 2019 Intel Corporation
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package isbn

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/intel/rsp-sw-toolkit-im-suite-expect"
)

func TestCheckDigit10(t *testing.T) {
	type test struct {
		name, digits string
		want         byte
		bad          bool
	}

	pass := func(n, d string, want byte) test {
		return test{name: n, digits: d, want: want}
	}
	fail := func(n, d string) test {
		return test{name: n, digits: d, bad: true}
	}

	for i, tt := range []test{
		pass("known ISBN core", "517095179", '5'),
		pass("X result", "155404295", 'X'),
		pass("zero core", "000000000", '0'),
		pass("rightmost 9 of longer input", "978517095179", '5'),

		fail("too short", "51709517"),
		fail("empty", ""),
		fail("non-digit", "51709517a"),
		fail("separator not stripped", "5-1709517"),
	} {
		t.Run(fmt.Sprintf("%02d_%s", i, tt.name), func(t *testing.T) {
			w := expect.WrapT(t)
			got, err := CheckDigit10(tt.digits)
			if tt.bad {
				w.As(tt.digits).ShouldFail(err)
				return
			}
			w.As(tt.digits).ShouldSucceed(err)
			w.ShouldBeEqual(got, tt.want)
		})
	}
}

func TestCheckDigitGS1(t *testing.T) {
	type test struct {
		name, digits string
		want         byte
		bad          bool
	}

	pass := func(n, d string, want byte) test {
		return test{name: n, digits: d, want: want}
	}
	fail := func(n, d string) test {
		return test{name: n, digits: d, bad: true}
	}

	for i, tt := range []test{
		pass("ISBN-13 core", "978517095179", '6'),
		pass("music core", "979026000043", '8'),
		pass("zero core", "000000000000", '0'),
		// the indicator digit must influence the result: these two share
		// their rightmost 12 digits but differ in the 13th.
		pass("GTIN-14 core, indicator 0", "0978517095179", '6'),
		pass("GTIN-14 core, indicator 1", "1978517095179", '3'),

		fail("too short", "97851709517"),
		fail("empty", ""),
		fail("non-digit", "9785170951a9"),
		fail("'X' is not a GS1 digit", "97851709517X"),
	} {
		t.Run(fmt.Sprintf("%02d_%s", i, tt.name), func(t *testing.T) {
			w := expect.WrapT(t)
			got, err := CheckDigitGS1(tt.digits)
			if tt.bad {
				w.As(tt.digits).ShouldFail(err)
				return
			}
			w.As(tt.digits).ShouldSucceed(err)
			w.ShouldBeEqual(got, tt.want)
		})
	}
}

func TestCheckDigits_deterministic(t *testing.T) {
	// same digits in must always yield the same digit out
	w := expect.WrapT(t)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		digits := randomDigits(r, 12)
		first := w.ShouldHaveResult(CheckDigitGS1(digits)).(byte)
		again := w.ShouldHaveResult(CheckDigitGS1(digits)).(byte)
		w.As(digits).ShouldBeEqual(first, again)
		w.As(digits).ShouldBeTrue(first >= '0' && first <= '9')

		short := digits[:9]
		d1 := w.ShouldHaveResult(CheckDigit10(short)).(byte)
		d2 := w.ShouldHaveResult(CheckDigit10(short)).(byte)
		w.As(short).ShouldBeEqual(d1, d2)
		w.As(short).ShouldBeTrue((d1 >= '0' && d1 <= '9') || d1 == 'X')
	}
}

func TestCompareAndAssert(t *testing.T) {
	w := expect.WrapT(t)

	ok := w.ShouldHaveResult(CompareGS1("978517095179", '6')).(bool)
	w.ShouldBeTrue(ok)
	ok = w.ShouldHaveResult(CompareGS1("978517095179", '5')).(bool)
	w.ShouldBeFalse(ok)

	ok = w.ShouldHaveResult(Compare10("155404295", 'X')).(bool)
	w.ShouldBeTrue(ok)
	ok = w.ShouldHaveResult(Compare10("155404295", '0')).(bool)
	w.ShouldBeFalse(ok)

	w.ShouldSucceed(AssertCheckDigit("978517095179", '6', true))
	w.ShouldSucceed(AssertCheckDigit("155404295", 'X', false))

	err := AssertCheckDigit("978517095179", '5', true)
	w.ShouldFail(err)
	expectCode(t, err, ErrChecksumMismatch, "2-1")
	err = AssertCheckDigit("9785170951a9", '6', true)
	w.ShouldFail(err)
	expectCode(t, err, ErrCannotCompare, "2-3")
	err = AssertCheckDigit("15540429a", 'X', false)
	w.ShouldFail(err)
	expectCode(t, err, ErrCannotCompare, "2-3")
}

func randomDigits(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + r.Intn(10))
	}
	return string(b)
}
