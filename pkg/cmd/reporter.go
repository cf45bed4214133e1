// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/consensys/go-verimon/pkg/diag"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// consoleSink renders diagnostics to a writer, one block per violation, with
// the counterexample trace indented by nesting depth and clipped to the
// terminal width.
type consoleSink struct {
	out   io.Writer
	width int
	count uint
}

func newConsoleSink(out io.Writer) *consoleSink {
	width := 80
	// Width only makes sense when the writer really is a terminal.
	if file, ok := out.(*os.File); ok {
		if fd := int(file.Fd()); term.IsTerminal(fd) {
			if w, _, err := term.GetSize(fd); err == nil && w > 0 {
				width = w
			}
		}
	}
	//
	return &consoleSink{out: out, width: width}
}

// Report implementation for the diag.Sink interface.
func (p *consoleSink) Report(d diag.Diagnostic) {
	p.count++
	//
	title := color.New(color.FgRed, color.Bold)
	title.Fprintf(p.out, "error[%s]", d.Category)
	fmt.Fprintf(p.out, ": %s\n", d.Message)
	fmt.Fprintf(p.out, "  --> %s\n", d.Loc)
	//
	for _, e := range d.Trace {
		line := fmt.Sprintf("  %s%s (%s)", strings.Repeat("  ", int(e.Depth)), e.Description, e.Loc)
		fmt.Fprintln(p.out, clip(line, p.width))
	}
}

// clip truncates a line to the given number of runes, never splitting a rune
// mid-sequence.
func clip(line string, width int) string {
	if utf8.RuneCountInString(line) <= width {
		return line
	}
	//
	runes := []rune(line)
	//
	return string(runes[:width])
}
