// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runlist

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

const (
	pyNone     = "None"
	pyTrue     = "True"
	pyFalse    = "False"
	pyInf      = `float("inf")`
	pyNegInf   = `-float("inf")`
	pySeqSep   = ", "
	pyKeyValue = ": "
)

// floatMark flags numbers that were decoded as floating point, so 1.0 stays a Python
// float instead of collapsing to the integer 1.
type floatMark struct{}

var markFloat = floatMark{}

// PythonLiteral renders v as a Python 3 literal expression.
//
// Strings are always double quoted with every special character escaped, so any entry
// round-trips through the Python parser unchanged. Lists, tuples and sets become Python
// lists and maps and objects become dicts with keys in sorted order. Numbers decoded
// as floats are written the way Python's repr writes them, so 1.0 stays 1.0.
func PythonLiteral(v cty.Value) (string, error) {
	sb := strings.Builder{}

	if err := writeLiteral(&sb, v, PythonString); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// PythonString renders s as a double quoted Python string literal.
func PythonString(s string) string {
	// Every escape strconv.Quote produces is also a valid Python 3 string escape.
	return strconv.Quote(s)
}

// pythonRepr quotes s the way Python's repr does: single quotes unless s contains a
// single quote and no double quote.
func pythonRepr(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	sb := strings.Builder{}
	sb.WriteRune(q)

	for _, r := range s {
		switch {
		case r == q || r == '\\':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case strconv.IsPrint(r):
			sb.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}

	sb.WriteRune(q)

	return sb.String()
}

// writeLiteral writes v to sb, quoting every string with quote.
func writeLiteral(sb *strings.Builder, v cty.Value, quote func(string) string) error {
	isFloat := false

	if v.IsMarked() {
		uv, marks := v.Unmark()
		if _, ok := marks[markFloat]; !ok || len(marks) != 1 {
			return fmt.Errorf("%w: marked value", ErrUnsupportedValue)
		}

		v, isFloat = uv, true
	}

	if !v.IsKnown() {
		return fmt.Errorf("%w: unknown value", ErrUnsupportedValue)
	}

	if v.IsNull() {
		sb.WriteString(pyNone)
		return nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		sb.WriteString(quote(v.AsString()))
	case ty == cty.Number:
		sb.WriteString(formatNumber(v.AsBigFloat(), isFloat))
	case ty == cty.Bool:
		if v.True() {
			sb.WriteString(pyTrue)
		} else {
			sb.WriteString(pyFalse)
		}
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		sb.WriteByte('[')

		i := 0
		for it := v.ElementIterator(); it.Next(); i++ {
			if i > 0 {
				sb.WriteString(pySeqSep)
			}

			_, ev := it.Element()
			if err := writeLiteral(sb, ev, quote); err != nil {
				return err
			}
		}

		sb.WriteByte(']')
	case ty.IsMapType() || ty.IsObjectType():
		sb.WriteByte('{')

		i := 0
		for it := v.ElementIterator(); it.Next(); i++ {
			if i > 0 {
				sb.WriteString(pySeqSep)
			}

			k, ev := it.Element()
			sb.WriteString(quote(k.AsString()))
			sb.WriteString(pyKeyValue)

			if err := writeLiteral(sb, ev, quote); err != nil {
				return err
			}
		}

		sb.WriteByte('}')
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedValue, ty.FriendlyName())
	}

	return nil
}

// formatNumber returns integers as plain digits unless they were decoded as floats.
// Everything else is written as a Python float.
func formatNumber(f *big.Float, isFloat bool) string {
	switch {
	case f.IsInf() && f.Sign() < 0:
		return pyNegInf
	case f.IsInf():
		return pyInf
	case f.IsInt() && !isFloat:
		return f.Text('f', 0)
	}

	f64, _ := f.Float64()

	return pythonFloat(f64)
}

// pythonFloat matches repr(float): the shortest digits that round-trip, positional
// notation for exponents from -4 to 15 and scientific notation outside that range.
func pythonFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return pyInf
	case math.IsInf(f, -1):
		return pyNegInf
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)

	exp, err := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return s
	}

	s = strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
