// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package generator writes one Python launcher per run list entry, and optionally one
// bash wrapper per launcher, into an output directory.
//
// Each launcher adds the directory of the work module to sys.path, imports everything
// from the module and calls the target function with the entry as its only argument.
// The wrapper runs the launcher with the configured interpreter and is the file that
// gets submitted to a cluster scheduler.
//
// The output directory is wiped at the start of every run.
package generator
