// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package jobfile loads job definitions from YAML or HCL files.
// Files are located with Hashicorp's go-getter, so a job file can be a local path,
// a git repository or an HTTP URL.
package jobfile
