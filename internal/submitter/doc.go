// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package submitter hands generated wrapper scripts to a cluster scheduler.
//
// Every *.sh file in a folder is submitted, in lexical order, by running the submit
// command through the shell once per file. Submissions are sequential and never
// retried. Each one produces a Result holding the exit code, captured output and the
// scheduler job id, so failures are visible even though they do not stop the batch.
package submitter
