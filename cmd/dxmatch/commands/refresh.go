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
	"github.com/spf13/pflag"
)

func refreshCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:    "refresh",
		Summary: "Re-download the jars and libraries of every existing match.",
		Flags:   func() *pflag.FlagSet { return g.flagSet("refresh") },
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("refresh: unexpected arguments %v", args)
			}
			s, err := g.open()
			if err != nil {
				return err
			}
			return s.registry.Refresh(ctx, s.resolver)
		},
	}
}
