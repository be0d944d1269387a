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

func setupCommand(g *globals) *cli.Command {
	var era string
	return &cli.Command{
		Name:    "setup",
		Summary: "Create the match between two versions.",
		Description: `Create the match record between two versions.

With two arguments the side combinations are tried in priority order
(merged/merged, client/merged, client/client, server/merged, server/server)
and the first viable one is used. With four arguments exactly that pairing
is tried.`,
		Usage: "dxmatch setup <versionA> <versionB> | <sideA> <versionA> <sideB> <versionB> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := g.flagSet("setup")
			fs.StringVar(&era, "era", "", "only create the match when versionB is in this era")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			switch len(args) {
			case 2:
				return setupAny(ctx, g, args[0], args[1], era)
			case 4:
				return setupExact(ctx, g, args, era)
			default:
				return fmt.Errorf("setup: want 2 or 4 arguments, got %d", len(args))
			}
		},
	}
}

func setupAny(ctx context.Context, g *globals, a, b, era string) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	key, created, err := s.walker.SetupAny(ctx, a, b, era)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(g.env.Stdout, "no new match for %s -> %s\n", a, b)
		return nil
	}
	fmt.Fprintf(g.env.Stdout, "created %s\n", key)
	return nil
}

func setupExact(ctx context.Context, g *globals, args []string, era string) error {
	sideA, err := model.ParseSide(args[0])
	if err != nil {
		return err
	}
	sideB, err := model.ParseSide(args[2])
	if err != nil {
		return err
	}
	key := model.NewMatchKey(sideA, args[1], sideB, args[3])
	if err := key.Validate(); err != nil {
		return err
	}

	s, err := g.open()
	if err != nil {
		return err
	}
	out, err := s.walker.Setup(ctx, key, era)
	if err != nil {
		return err
	}
	switch {
	case out.DidCreate:
		fmt.Fprintf(g.env.Stdout, "created %s\n", key)
	case out.CanCreate:
		fmt.Fprintf(g.env.Stdout, "exists %s\n", key)
	default:
		fmt.Fprintf(g.env.Stdout, "unavailable %s\n", key)
		return &cli.ExitError{Code: 2}
	}
	return nil
}
