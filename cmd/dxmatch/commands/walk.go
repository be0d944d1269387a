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

	"dirpx.dev/dxmatch/cmd/dxmatch/cli"
	"dirpx.dev/dxmatch/dxcore/model"
	"github.com/spf13/pflag"
)

// walkCommand builds "next" (stop at the first new match) and "fill" (create
// every missing match).
func walkCommand(g *globals, name, summary string, exhaustive bool) *cli.Command {
	mode := model.SingleShot
	if exhaustive {
		mode = model.Exhaustive
	}
	var roots []string
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   "dxmatch " + name + " [era] [flags]",
		Flags: func() *pflag.FlagSet {
			fs := g.flagSet(name)
			fs.StringSliceVar(&roots, "from", nil, "versions to start from (default from config)")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("%s: want at most one era, got %d arguments", name, len(args))
			}
			var era string
			if len(args) == 1 {
				era = args[0]
			}

			s, err := g.open()
			if err != nil {
				return err
			}
			start := s.cfg.Roots
			if len(roots) > 0 {
				start = roots
			}

			res, err := s.walker.Walk(ctx, start, mode, era)
			for _, key := range res.Created {
				fmt.Fprintf(g.env.Stdout, "created %s\n", key)
			}
			if err != nil {
				return err
			}
			if len(res.Created) == 0 {
				fmt.Fprintf(g.env.Stdout, "nothing to create (%d versions visited)\n", res.Visited)
			} else if exhaustive {
				fmt.Fprintf(g.env.Stdout, "%d matches created (%d versions visited)\n", len(res.Created), res.Visited)
			}
			return nil
		},
	}
}
