// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runlist

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// LabelSeparator joins the components of a derived label, and a label to the job index.
const LabelSeparator = "_"

// ErrInvalidLabel is returned when a label cannot be used as part of a file name.
var ErrInvalidLabel = errors.New("invalid label")

// DeriveLabels builds one label per entry. Entries that are not sequences are treated
// as a sequence of one, each component is converted to text and the components are
// joined with LabelSeparator. Strings are used verbatim and everything else is rendered
// the way Python's str() renders it, so [1, "a", [2, "b"]] gives "1", "a" and "2_b",
// and [["a"], 1.0] gives "['a']_1.0".
func DeriveLabels(runs RunList) ([]string, error) {
	labels := make([]string, len(runs))

	for i, entry := range runs {
		parts := components(entry)
		texts := make([]string, len(parts))

		for j, p := range parts {
			s, err := componentText(p)
			if err != nil {
				return nil, fmt.Errorf("label for run list entry %d: %w", i, err)
			}

			texts[j] = s
		}

		labels[i] = strings.Join(texts, LabelSeparator)
	}

	return labels, nil
}

// ValidateLabel checks that label can be embedded in a file name.
func ValidateLabel(label string) error {
	if strings.ContainsRune(label, '/') ||
		strings.ContainsRune(label, os.PathSeparator) ||
		strings.ContainsRune(label, 0) {
		return fmt.Errorf("%w: %q contains a path separator or NUL", ErrInvalidLabel, label)
	}

	return nil
}

func components(v cty.Value) []cty.Value {
	if !v.IsKnown() || v.IsNull() || v.IsMarked() {
		return []cty.Value{v}
	}

	ty := v.Type()
	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		return v.AsValueSlice()
	}

	return []cty.Value{v}
}

func componentText(v cty.Value) (string, error) {
	if v.IsKnown() && !v.IsNull() && !v.IsMarked() && v.Type() == cty.String {
		return v.AsString(), nil
	}

	sb := strings.Builder{}
	if err := writeLiteral(&sb, v, pythonRepr); err != nil {
		return "", err
	}

	return sb.String(), nil
}
