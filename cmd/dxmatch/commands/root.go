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

// Package commands defines the dxmatch command tree.
package commands

import (
	"io"
	"log/slog"
	"os"

	"dirpx.dev/dxmatch/cmd/dxmatch/cli"
	"dirpx.dev/dxmatch/dxcore/artifact"
	"dirpx.dev/dxmatch/dxcore/catalog"
	"dirpx.dev/dxmatch/dxcore/config"
	"dirpx.dev/dxmatch/dxcore/fetch"
	"dirpx.dev/dxmatch/dxcore/registry"
	"dirpx.dev/dxmatch/dxcore/tool"
	"dirpx.dev/dxmatch/dxcore/walker"
	"github.com/spf13/pflag"
)

// Env carries the streams commands write to.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultEnv writes to the process streams.
func DefaultEnv() Env {
	return Env{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Root returns the dxmatch command tree.
func Root(env Env) *cli.Command {
	g := &globals{env: env}
	return &cli.Command{
		Name:    "dxmatch",
		Summary: "Create and track obfuscation matches between game versions.",
		Output:  env.Stderr,
		Subcommands: []*cli.Command{
			setupCommand(g),
			walkCommand(g, "next", "Create the next missing match.", false),
			walkCommand(g, "fill", "Create every missing match.", true),
			refreshCommand(g),
			statusCommand(g),
			exportCommand(g),
		},
	}
}

// globals holds the flags every command accepts.
type globals struct {
	env      Env
	config   string
	root     string
	logLevel string
}

func (g *globals) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVarP(&g.config, "config", "c", "", "config file (default "+config.DefaultFile+" when present)")
	fs.StringVar(&g.root, "root", "", "data directory")
	fs.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return fs
}

// stack is the wired set of components a command runs against.
type stack struct {
	cfg      config.Config
	logger   *slog.Logger
	catalog  *catalog.Store
	fetcher  *fetch.Client
	resolver *artifact.Resolver
	registry *registry.Registry
	walker   *walker.Walker
}

func (g *globals) open() (*stack, error) {
	cfg, err := config.Load(g.config)
	if err != nil {
		return nil, err
	}
	if g.root != "" {
		cfg.Root = g.root
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := cfg.Level()
	logger := cli.NewLogger(g.env.Stderr, level)

	cat, err := catalog.Open(cfg.Path(cfg.CatalogDir),
		catalog.WithCacheSize(cfg.CacheSize),
		catalog.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(fetch.WithConcurrency(cfg.Concurrency), fetch.WithLogger(logger))
	mergeTool, _ := cfg.MergeTool()
	merger := &tool.JarMerger{
		Tool:    mergeTool,
		Java:    tool.NewJava(cfg.JavaHome),
		Fetcher: fetcher,
		Logger:  logger,
	}
	resolver := artifact.NewResolver(cfg.Root, cat, fetcher, merger, logger)
	merger.LibrariesDir = resolver.LibrariesDir()

	reg := registry.New(cfg.Path(cfg.MatchesDir), cat, logger)
	w := walker.New(cat, reg, resolver,
		walker.WithCurrentFile(cfg.Path(cfg.CurrentFile)),
		walker.WithLogger(logger),
	)

	return &stack{
		cfg:      cfg,
		logger:   logger,
		catalog:  cat,
		fetcher:  fetcher,
		resolver: resolver,
		registry: reg,
		walker:   w,
	}, nil
}
