// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runlist

import (
	"errors"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrUnsupportedValue is returned when a value cannot be used as a run list entry.
	ErrUnsupportedValue = errors.New("unsupported run list value")
	// ErrNotASequence is returned when a run list is built from something that is not a list.
	ErrNotASequence = errors.New("run list must be a sequence")
)

// RunList is the ordered list of arguments, one per generated job.
type RunList []cty.Value

// Len returns the number of entries in the run list.
func (r RunList) Len() int {
	return len(r)
}

// FromValue builds a RunList from a cty list, tuple or set value.
// A null value, including cty.NilVal, gives an empty run list.
func FromValue(v cty.Value) (RunList, error) {
	if v.IsNull() {
		return RunList{}, nil
	}

	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: run list contains unknown values", ErrUnsupportedValue)
	}

	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, fmt.Errorf("%w: got %s", ErrNotASequence, ty.FriendlyName())
	}

	return RunList(v.AsValueSlice()), nil
}

// FromGo builds a RunList from decoded YAML or JSON values.
func FromGo(values []any) (RunList, error) {
	r := make(RunList, 0, len(values))

	for i, raw := range values {
		v, err := ToValue(raw)
		if err != nil {
			return nil, fmt.Errorf("run list entry %d: %w", i, err)
		}

		r = append(r, v)
	}

	return r, nil
}

// ToValue converts a decoded Go value into a cty.Value.
// Sequences become tuples and maps become objects so that mixed element types are kept.
// Finite floats carry a mark so that whole values still render as Python floats.
func ToValue(raw any) (cty.Value, error) {
	switch x := raw.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return x, nil
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int8:
		return cty.NumberIntVal(int64(x)), nil
	case int16:
		return cty.NumberIntVal(int64(x)), nil
	case int32:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case uint:
		return cty.NumberUIntVal(uint64(x)), nil
	case uint8:
		return cty.NumberUIntVal(uint64(x)), nil
	case uint16:
		return cty.NumberUIntVal(uint64(x)), nil
	case uint32:
		return cty.NumberUIntVal(uint64(x)), nil
	case uint64:
		return cty.NumberUIntVal(x), nil
	case float32:
		return floatValue(float64(x))
	case float64:
		return floatValue(x)
	case []any:
		if len(x) == 0 {
			return cty.EmptyTupleVal, nil
		}

		elems := make([]cty.Value, len(x))

		for i, e := range x {
			v, err := ToValue(e)
			if err != nil {
				return cty.NilVal, err
			}

			elems[i] = v
		}

		return cty.TupleVal(elems), nil
	case map[string]any:
		return objectValue(x)
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = e
		}

		return objectValue(m)
	default:
		return cty.NilVal, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

func floatValue(f float64) (cty.Value, error) {
	if math.IsNaN(f) {
		return cty.NilVal, fmt.Errorf("%w: NaN", ErrUnsupportedValue)
	}

	if math.IsInf(f, 1) {
		return cty.PositiveInfinity, nil
	}

	if math.IsInf(f, -1) {
		return cty.NegativeInfinity, nil
	}

	return cty.NumberFloatVal(f).Mark(markFloat), nil
}

func objectValue(m map[string]any) (cty.Value, error) {
	if len(m) == 0 {
		return cty.EmptyObjectVal, nil
	}

	attrs := make(map[string]cty.Value, len(m))

	for k, e := range m {
		v, err := ToValue(e)
		if err != nil {
			return cty.NilVal, err
		}

		attrs[k] = v
	}

	return cty.ObjectVal(attrs), nil
}
