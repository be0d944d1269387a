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
	"os"
	"path/filepath"

	"dirpx.dev/dxmatch/cmd/dxmatch/cli"
	"dirpx.dev/dxmatch/dxcore/report"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
)

// DefaultExportFile is where export writes unless told otherwise.
const DefaultExportFile = "dist/matches.json"

func exportCommand(g *globals) *cli.Command {
	var out string
	return &cli.Command{
		Name:    "export",
		Summary: "Write the match graph as JSON.",
		Flags: func() *pflag.FlagSet {
			fs := g.flagSet("export")
			fs.StringVarP(&out, "out", "o", DefaultExportFile, "output file, - for stdout")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("export: unexpected arguments %v", args)
			}
			s, err := g.open()
			if err != nil {
				return err
			}
			data, err := report.Collect(ctx, s.registry, s.catalog)
			if err != nil {
				return err
			}
			if out == "-" {
				return report.WriteJSON(g.env.Stdout, data)
			}
			if err := writeExport(out, data); err != nil {
				return err
			}
			s.logger.Info("exported matches", "file", out, "matches", len(data.Matches), "versions", len(data.Versions))
			return nil
		},
	}
}

func writeExport(path string, data report.Data) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return report.WriteJSON(f, data)
}
