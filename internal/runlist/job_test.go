// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runlist

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestIndexWidth(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{n: 0, want: 1},
		{n: 1, want: 1},
		{n: 10, want: 1},
		{n: 11, want: 2},
		{n: 100, want: 2},
		{n: 101, want: 3},
		{n: 1000, want: 3},
		{n: 1001, want: 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IndexWidth(tt.n), "n=%d", tt.n)
	}
}

func TestJobID(t *testing.T) {
	assert.Equal(t, "p0", JobID(0, 10, "", false))
	assert.Equal(t, "p9", JobID(9, 10, "", false))
	assert.Equal(t, "p00", JobID(0, 11, "", false))
	assert.Equal(t, "p10", JobID(10, 11, "", false))
	assert.Equal(t, "p07_a", JobID(7, 20, "a", true))
	assert.Equal(t, "p0_", JobID(0, 1, "", true))
}

func TestJobs_SortOrderMatchesListOrder(t *testing.T) {
	for _, n := range []int{1, 9, 10, 11, 99, 100, 101, 1000, 1001} {
		runs := make(RunList, n)
		for i := range runs {
			runs[i] = cty.NumberIntVal(int64(i))
		}

		jobs, err := Jobs(runs, nil)
		require.NoError(t, err)
		require.Len(t, jobs, n)

		ids := make([]string, n)
		for i, j := range jobs {
			ids[i] = j.ID
			assert.Equal(t, i, j.Index)
		}

		assert.True(t, sort.StringsAreSorted(ids), "ids for n=%d are not sorted", n)
	}
}

func TestJobs_Labels(t *testing.T) {
	runs := RunList{cty.NumberIntVal(0), cty.NumberIntVal(1)}

	jobs, err := Jobs(runs, []string{"zero", "one"})
	require.NoError(t, err)
	assert.Equal(t, "p0_zero", jobs[0].ID)
	assert.Equal(t, "p1_one", jobs[1].ID)
	assert.Equal(t, "one", jobs[1].Label)

	_, err = Jobs(runs, []string{"only"})
	assert.ErrorIs(t, err, ErrLabelCount)
}
