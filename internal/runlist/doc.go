// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runlist models the list of arguments that a batch of launchers is generated from.
//
// Each run list entry is held as a cty.Value so that values decoded from YAML, HCL or the
// command line share one representation. The package computes the zero-padded job index,
// the job identifier used as a file name stem, derived labels, and renders entries as
// Python literals with PythonLiteral.
package runlist
