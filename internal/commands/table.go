// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package commands implements the text command surface: a fixed command
// table, a dispatcher that parses and validates invocations, and the handlers
// that combine the option store with the row cache.
package commands

import "strings"

// Name identifies a command.
type Name string

const (
	GetSource    Name = "get_source"
	SetSource    Name = "set_source"
	Info         Name = "i"
	CfgSetSource Name = "cfg_set_source"
	CfgGetSource Name = "cfg_get_source"
	Start        Name = "start"
	Help         Name = "help"
)

// Spec describes one command. An argument written as "name=default" is
// optional; anything else is required.
type Spec struct {
	Name        Name
	Args        []string
	Description string
	// ErrorPrefix is prepended to handler errors shown to the user.
	ErrorPrefix string
}

// Table lists every command in help order.
var Table = []Spec{
	{Name: GetSource, Description: "Show my current source", ErrorPrefix: "Failed to read source name"},
	{Name: SetSource, Args: []string{"source name"}, Description: "Set my current source", ErrorPrefix: "Failed to set source"},
	{Name: Info, Args: []string{"key"}, Description: "Find a row and show the selected columns", ErrorPrefix: "Failed to fetch data"},
	{
		Name:        CfgSetSource,
		Args:        []string{"source name", "source url", "sheet number", "seek column", "return columns"},
		Description: "Add or update a data source",
		ErrorPrefix: "Failed to save source",
	},
	{Name: CfgGetSource, Args: []string{"source name"}, Description: "Show a source configuration", ErrorPrefix: "Failed to read configuration"},
	{Name: Start, Description: "Show the greeting"},
	{Name: Help, Description: "Show this help"},
}

// Lookup finds a command by name.
func Lookup(name string) (Spec, bool) {
	for _, s := range Table {
		if string(s.Name) == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Required counts the arguments that have no default.
func (s Spec) Required() int {
	n := 0
	for _, a := range s.Args {
		if !strings.Contains(a, "=") {
			n++
		}
	}
	return n
}

// Usage renders "/name <required> [optional=default]".
func (s Spec) Usage() string {
	var b strings.Builder
	b.WriteByte('/')
	b.WriteString(string(s.Name))
	for _, a := range s.Args {
		if strings.Contains(a, "=") {
			b.WriteString(" [" + a + "]")
		} else {
			b.WriteString(" <" + a + ">")
		}
	}
	return b.String()
}

// HelpText lists all commands with their usage and description.
func HelpText() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, s := range Table {
		b.WriteString(s.Usage())
		b.WriteString(": ")
		b.WriteString(s.Description)
		b.WriteByte('\n')
	}
	return b.String()
}
