// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package generator

import (
	"bytes"
	"embed"
	"regexp"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const (
	launcherTemplate = "launcher.py.tmpl"
	wrapperTemplate  = "wrapper.sh.tmpl"
)

// launcherData feeds launcher.py.tmpl. ModuleDir and Argument are Python literals.
type launcherData struct {
	Relative  bool
	ModuleDir string
	Module    string
	Function  string
	Argument  string
}

// wrapperData feeds wrapper.sh.tmpl. Launcher is already shell quoted.
type wrapperData struct {
	Relative    bool
	Interpreter string
	Launcher    string
}

func render(name string, data any) ([]byte, error) {
	buf := bytes.Buffer{}
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_./@%+=:,-]+$`)

// shellQuote returns s unchanged when it needs no quoting, otherwise wrapped in single quotes.
func shellQuote(s string) string {
	if shellSafe.MatchString(s) {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
