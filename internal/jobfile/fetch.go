// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/splitrun/internal/ctxlog"
)

// ErrGetJobFile is returned when the job file cannot be retrieved.
var ErrGetJobFile = errors.New("failed to get job file")

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path
)

// Fetch retrieves the job file at url using go-getter and returns its content.
// Anything go-getter downloads is removed before Fetch returns.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: no location given", ErrGetJobFile)
	}

	tmpDir, err := os.MkdirTemp("", "splitrun-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetJobFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetJobFile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string

	// Remote sources can only be fetched as directories, so split the file name off.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, errors.Join(ErrGetJobFile, err)
		}

		var dirURL string

		dirURL, fileName = splitFileName(url)
		if dirURL == "" || fileName == "" {
			return nil, fmt.Errorf("%w: cannot find a file name in %s", ErrGetJobFile, url)
		}

		req.Src = dirURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	ctxlog.Debug(ctx, "fetching job file", "src", req.Src, "file", fileName)

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetJobFile, err)
	}

	b, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, errors.Join(ErrGetJobFile, err)
	}

	return b, nil
}

// splitFileName splits a go-getter URL into the URL of the containing directory
// and the file name. A ref query is carried over to the directory URL.
func splitFileName(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if before, after, found := strings.Cut(last, goGetterRefSeparator); found {
		ref = after
		last = before
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)

	if dir := filepath.Dir(last); dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	dirURL := strings.Join(parts, goGetterPathSeparator)
	if ref != "" {
		dirURL += goGetterRefSeparator + ref
	}

	return dirURL, fileName
}

// fileExt returns the extension of the file url points at, ignoring any query.
func fileExt(url string) string {
	path, _, _ := strings.Cut(url, goGetterRefSeparator)
	return strings.ToLower(filepath.Ext(path))
}
