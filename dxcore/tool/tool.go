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

// Package tool locates, downloads and runs the external Java tools dxmatch
// delegates to. The only one in use is the jar merger, which combines a
// client and a server jar into one artifact under a shared mapping.
package tool

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	"dirpx.dev/dxmatch/dxcore/fetch"
)

// Tool identifies a jar by Maven coordinates.
type Tool struct {
	Maven      string
	Group      string
	Artifact   string
	Version    string
	Classifier string
}

// DefaultMerger is the jar merge tool used when none is configured.
var DefaultMerger = Tool{
	Maven:      "https://maven.fabricmc.net/",
	Group:      "net.fabricmc",
	Artifact:   "stitch",
	Version:    "0.6.1",
	Classifier: "all",
}

// ParseTool parses "group:artifact:version[:classifier]" coordinates hosted
// in the given Maven repository.
func ParseTool(maven, coords string) (Tool, error) {
	parts := strings.Split(coords, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Tool{}, fmt.Errorf("tool: invalid coordinates %q, want group:artifact:version[:classifier]", coords)
	}
	for _, p := range parts {
		if p == "" {
			return Tool{}, fmt.Errorf("tool: invalid coordinates %q: empty component", coords)
		}
	}
	t := Tool{Maven: maven, Group: parts[0], Artifact: parts[1], Version: parts[2]}
	if len(parts) == 4 {
		t.Classifier = parts[3]
	}
	return t, nil
}

// Path returns the repository-relative path of the jar:
// {group as path}/{artifact}/{version}/{artifact}-{version}[-{classifier}].jar
func (t Tool) Path() string {
	name := t.Artifact + "-" + t.Version
	if t.Classifier != "" {
		name += "-" + t.Classifier
	}
	return strings.ReplaceAll(t.Group, ".", "/") + "/" + t.Artifact + "/" + t.Version + "/" + name + ".jar"
}

// URL resolves Path against the Maven repository.
func (t Tool) URL() (string, error) {
	base, err := url.Parse(t.Maven)
	if err != nil {
		return "", fmt.Errorf("tool: maven repository %q: %w", t.Maven, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(&url.URL{Path: t.Path()}).String(), nil
}

// String returns the coordinates.
func (t Tool) String() string {
	s := t.Group + ":" + t.Artifact + ":" + t.Version
	if t.Classifier != "" {
		s += ":" + t.Classifier
	}
	return s
}

// Ensure downloads the tool into librariesDir unless it is already there and
// returns the local path.
func (t Tool) Ensure(ctx context.Context, f fetch.Fetcher, librariesDir string) (string, error) {
	u, err := t.URL()
	if err != nil {
		return "", err
	}
	dest := filepath.Join(librariesDir, filepath.FromSlash(t.Path()))
	if err := f.Fetch(ctx, u, dest); err != nil {
		return "", fmt.Errorf("tool: fetching %s: %w", t, err)
	}
	return dest, nil
}

// Java runs a Java executable.
type Java struct {
	bin string
}

// NewJava returns a runner for $JAVA_HOME/bin/java, or for "java" on PATH
// when javaHome is empty.
func NewJava(javaHome string) *Java {
	if javaHome == "" {
		return &Java{bin: "java"}
	}
	return &Java{bin: filepath.Join(javaHome, "bin", "java")}
}

// Bin returns the executable that Run invokes.
func (j *Java) Bin() string {
	return j.bin
}

// Run executes java with args and returns stdout. Stderr is captured
// separately and included in the error on failure.
func (j *Java) Run(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, j.bin, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w (stderr: %s)",
			j.bin, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Merger merges a client and a server jar into dest.
type Merger interface {
	MergeJars(ctx context.Context, client, server, dest string) error
}

// JarMerger runs the merge tool through Java.
type JarMerger struct {
	Tool         Tool
	Java         *Java
	Fetcher      fetch.Fetcher
	LibrariesDir string
	Logger       *slog.Logger
}

var _ Merger = (*JarMerger)(nil)

// MergeJars fetches the tool if needed and runs
//
//	java -jar <tool> mergeJar <client> <server> <dest> --removeSnowman --syntheticparams
func (m *JarMerger) MergeJars(ctx context.Context, client, server, dest string) error {
	jar, err := m.Tool.Ensure(ctx, m.Fetcher, m.LibrariesDir)
	if err != nil {
		return err
	}
	if m.Logger != nil {
		m.Logger.Info("merging jars", "java", m.Java.Bin(), "tool", m.Tool.String(), "client", client, "server", server, "dest", dest)
	}
	out, err := m.Java.Run(ctx, "-jar", jar, "mergeJar", client, server, dest, "--removeSnowman", "--syntheticparams")
	if err != nil {
		return fmt.Errorf("tool: merge: %w", err)
	}
	if m.Logger != nil && out != "" {
		m.Logger.Debug("merge tool output", "output", strings.TrimSpace(out))
	}
	return nil
}
