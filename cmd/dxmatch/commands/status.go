/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"dirpx.dev/dxmatch/cmd/dxmatch/cli"
	"dirpx.dev/dxmatch/dxcore/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	doneStyle      = cellStyle.Foreground(lipgloss.Color("2"))
	untrackedStyle = cellStyle.Foreground(lipgloss.Color("8"))
)

const progressColumn = 3

func statusCommand(g *globals) *cli.Command {
	var era string
	var eras bool
	return &cli.Command{
		Name:    "status",
		Summary: "Show the progress of every match.",
		Flags: func() *pflag.FlagSet {
			fs := g.flagSet("status")
			fs.StringVar(&era, "era", "", "only show matches whose B version is in this era")
			fs.BoolVar(&eras, "eras", false, "also show how many versions of each era are matched")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("status: unexpected arguments %v", args)
			}
			s, err := g.open()
			if err != nil {
				return err
			}
			data, err := report.Collect(ctx, s.registry, s.catalog)
			if err != nil {
				return err
			}
			writeStatus(g.env.Stdout, data, era)
			if eras {
				writeEraCoverage(g.env.Stdout, data)
			}
			return nil
		},
	}
}

func writeStatus(w io.Writer, data report.Data, era string) {
	var rows [][]string
	tracked := 0
	for _, m := range data.Matches {
		matchEra := data.Versions[m.B].Era
		if era != "" && matchEra != era {
			continue
		}
		progress, c, me, f, ma := "-", "", "", "", ""
		if st, ok := data.Status[m.File]; ok {
			tracked++
			progress = st.ProgressLabel()
			c, me, f, ma = st.Classes.String(), st.Methods.String(), st.Fields.String(), st.MethodArgs.String()
		}
		rows = append(rows, []string{m.A, m.B, matchEra, progress, c, me, f, ma})
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("A", "B", "Era", "Progress", "Classes", "Methods", "Fields", "Args").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col != progressColumn:
				return cellStyle
			case rows[row][col] == "100%":
				return doneStyle
			case rows[row][col] == "-":
				return untrackedStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d matches, %d with progress\n", len(rows), tracked)
}

func writeEraCoverage(w io.Writer, data report.Data) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Era", "Versions", "Matched").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, era := range data.Eras() {
		nodes := data.VersionsByEra[era]
		matched := 0
		for _, n := range nodes {
			if _, ok := data.Versions[n]; ok {
				matched++
			}
		}
		t.Row(era, strconv.Itoa(len(nodes)), strconv.Itoa(matched))
	}
	fmt.Fprintln(w, t.Render())
}
