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

package tool

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"dirpx.dev/dxmatch/dxcore/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTool_Path(t *testing.T) {
	assert.Equal(t, "net/fabricmc/stitch/0.6.1/stitch-0.6.1-all.jar", DefaultMerger.Path())

	plain := Tool{Group: "org.ow2.asm", Artifact: "asm", Version: "9.5"}
	assert.Equal(t, "org/ow2/asm/asm/9.5/asm-9.5.jar", plain.Path())
}

func TestTool_URL(t *testing.T) {
	u, err := DefaultMerger.URL()
	require.NoError(t, err)
	assert.Equal(t, "https://maven.fabricmc.net/net/fabricmc/stitch/0.6.1/stitch-0.6.1-all.jar", u)

	noSlash := DefaultMerger
	noSlash.Maven = "https://repo.example.com/maven"
	u, err = noSlash.URL()
	require.NoError(t, err)
	assert.Equal(t, "https://repo.example.com/maven/net/fabricmc/stitch/0.6.1/stitch-0.6.1-all.jar", u)
}

func TestParseTool(t *testing.T) {
	got, err := ParseTool("https://maven.fabricmc.net/", "net.fabricmc:stitch:0.6.1:all")
	require.NoError(t, err)
	assert.Equal(t, DefaultMerger, got)
	assert.Equal(t, "net.fabricmc:stitch:0.6.1:all", got.String())

	got, err = ParseTool("https://m/", "g:a:1")
	require.NoError(t, err)
	assert.Empty(t, got.Classifier)

	for _, bad := range []string{"", "g:a", "g::1", "g:a:1:c:x"} {
		_, err := ParseTool("https://m/", bad)
		assert.Error(t, err, bad)
	}
}

func TestNewJava(t *testing.T) {
	assert.Equal(t, "java", NewJava("").Bin())
	assert.Equal(t, filepath.Join("/opt/jdk", "bin", "java"), NewJava("/opt/jdk").Bin())
}

type recordingFetcher struct {
	urls []string
}

func (f *recordingFetcher) Fetch(ctx context.Context, url, dest string) error {
	f.urls = append(f.urls, url)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("tool"), 0o644)
}

func (f *recordingFetcher) FetchAll(ctx context.Context, jobs []fetch.Job) error {
	for _, j := range jobs {
		if err := f.Fetch(ctx, j.URL, j.Dest); err != nil {
			return err
		}
	}
	return nil
}

// fakeJavaHome installs a bin/java shell script that writes its arguments to
// args.txt and creates the merge destination (the 6th argument).
func fakeJavaHome(t *testing.T, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script java stub requires a POSIX shell")
	}
	home := t.TempDir()
	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$@\" > \"" + filepath.Join(home, "args.txt") + "\"\n" +
		"echo 'merge failed' >&2\n"
	if exitCode == 0 {
		script = "#!/bin/sh\n" +
			"printf '%s\\n' \"$@\" > \"" + filepath.Join(home, "args.txt") + "\"\n" +
			"touch \"$6\"\n"
	} else {
		script += "exit 3\n"
	}
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "bin", "java"), []byte(script), 0o755))
	return home
}

func TestJarMerger_MergeJars(t *testing.T) {
	home := fakeJavaHome(t, 0)
	libs := t.TempDir()
	dest := filepath.Join(t.TempDir(), "merged.jar")
	f := &recordingFetcher{}

	m := &JarMerger{Tool: DefaultMerger, Java: NewJava(home), Fetcher: f, LibrariesDir: libs}
	require.NoError(t, m.MergeJars(context.Background(), "client.jar", "server.jar", dest))

	assert.Equal(t, []string{"https://maven.fabricmc.net/net/fabricmc/stitch/0.6.1/stitch-0.6.1-all.jar"}, f.urls)
	assert.FileExists(t, dest)

	args, err := os.ReadFile(filepath.Join(home, "args.txt"))
	require.NoError(t, err)
	toolJar := filepath.Join(libs, "net", "fabricmc", "stitch", "0.6.1", "stitch-0.6.1-all.jar")
	want := []string{"-jar", toolJar, "mergeJar", "client.jar", "server.jar", dest, "--removeSnowman", "--syntheticparams"}
	assert.Equal(t, want, strings.Split(strings.TrimSpace(string(args)), "\n"))
}

func TestJarMerger_MergeJars_Failure(t *testing.T) {
	home := fakeJavaHome(t, 3)
	m := &JarMerger{Tool: DefaultMerger, Java: NewJava(home), Fetcher: &recordingFetcher{}, LibrariesDir: t.TempDir()}

	err := m.MergeJars(context.Background(), "c.jar", "s.jar", filepath.Join(t.TempDir(), "m.jar"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge failed")
	assert.Contains(t, err.Error(), "mergeJar")
}
