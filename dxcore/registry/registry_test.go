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

package registry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"dirpx.dev/dxmatch/dxcore/catalog/catalogtest"
	"dirpx.dev/dxmatch/dxcore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() *catalogtest.Fake {
	return (&catalogtest.Fake{}).
		AddVersion(model.Version{ID: "1.0", ReleaseTarget: "1.0"}).
		AddVersion(model.Version{ID: "1.1", ReleaseTarget: "1.1"}).
		AddVersion(model.Version{ID: "server-c1.2"}).
		AddVersion(model.Version{ID: "server-c1.3"}).
		AddVersion(model.Version{ID: "eraless"})
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("Matches saved auto-generated\n"), 0o644))
}

func TestRegistry_Path(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	r := New(dir, testCatalog(), discardLogger())

	path, err := r.Path(ctx, model.NewMatchKey(model.SideClient, "1.0", model.SideMerged, "1.1"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cross", "1.1", "client-1.0#merged-1.1.match"), path)

	path, err = r.Path(ctx, model.NewMatchKey(model.SideServer, "server-c1.2", model.SideServer, "server-c1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "server", "classic", "server-c1.2#server-c1.3.match"), path)

	path, err = r.Path(ctx, model.NewMatchKey(model.SideMerged, "1.1", model.SideMerged, "eraless"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "merged", "1.1#eraless.match"), path)

	_, err = r.Path(ctx, model.NewMatchKey(model.SideMerged, "1.1", model.SideMerged, "unknown"))
	require.Error(t, err)

	_, err = r.Path(ctx, model.MatchKey{})
	require.Error(t, err)
}

func TestRegistry_ExistsCreate(t *testing.T) {
	ctx := context.Background()
	r := New(t.TempDir(), testCatalog(), discardLogger())
	key := model.NewMatchKey(model.SideClient, "1.0", model.SideMerged, "1.1")

	for i := 0; i < 2; i++ {
		ok, err := r.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "call %d", i)
	}

	rec := Record{Key: key, JarA: "a.jar", JarB: "b.jar"}
	path, err := r.Create(ctx, rec)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rec.Bytes(), data)

	ok, err := r.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	// Create refuses to overwrite, and the original content survives.
	require.NoError(t, os.WriteFile(path, []byte("c:1/1 m:1/1 f:1/1 ma:1/1\nedited"), 0o644))
	_, err = r.Create(ctx, rec)
	require.ErrorIs(t, err, ErrExists)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "c:1/1 m:1/1 f:1/1 ma:1/1\nedited", string(data))
}

func TestRegistry_Exists_HistoricalWithoutDetails(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	// No details documents at all: historical ids resolve their era by prefix.
	r := New(dir, &catalogtest.Fake{}, discardLogger())
	key := model.NewMatchKey(model.SideServer, "server-c1.2", model.SideServer, "server-c1.3")

	ok, err := r.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	touch(t, filepath.Join(dir, "server", "classic", "server-c1.2#server-c1.3.match"))
	ok, err = r.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegistry_Scan(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "merged", "1.0#1.1.match"))
	touch(t, filepath.Join(dir, "merged", "1.1", "1.1#1.1.1.match"))
	touch(t, filepath.Join(dir, "cross", "1.1", "client-1.0#merged-1.1.match"))
	touch(t, filepath.Join(dir, "server", "classic", "server-c1.2#server-c1.3.match"))
	touch(t, filepath.Join(dir, "server", "classic", "notes.txt"))
	touch(t, filepath.Join(dir, "cross", "1.1", "broken.match"))
	touch(t, filepath.Join(dir, "README.md"))

	r := New(dir, testCatalog(), discardLogger())
	entries, err := r.Scan()
	require.NoError(t, err)

	want := []Entry{
		{
			Key:    model.NewMatchKey(model.SideClient, "1.0", model.SideMerged, "1.1"),
			Bucket: "cross", Era: "1.1",
			Path: filepath.Join("cross", "1.1", "client-1.0#merged-1.1.match"),
		},
		{
			Key:    model.NewMatchKey(model.SideMerged, "1.0", model.SideMerged, "1.1"),
			Bucket: "merged",
			Path:   filepath.Join("merged", "1.0#1.1.match"),
		},
		{
			Key:    model.NewMatchKey(model.SideMerged, "1.1", model.SideMerged, "1.1.1"),
			Bucket: "merged", Era: "1.1",
			Path: filepath.Join("merged", "1.1", "1.1#1.1.1.match"),
		},
		{
			Key:    model.NewMatchKey(model.SideServer, "server-c1.2", model.SideServer, "server-c1.3"),
			Bucket: "server", Era: "classic",
			Path: filepath.Join("server", "classic", "server-c1.2#server-c1.3.match"),
		},
	}
	assert.Equal(t, want, entries)
}

func TestRegistry_Scan_MissingDir(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "matches"), testCatalog(), discardLogger())
	entries, err := r.Scan()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRegistry_Header(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "merged", "1.0#1.1.match")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("Matches saved c:1/2 m:3/4 f:5/6 ma:7/8\n\ta:\n"), 0o644))

	r := New(dir, testCatalog(), discardLogger())
	entries, err := r.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	header, err := r.Header(entries[0])
	require.NoError(t, err)
	assert.Equal(t, "Matches saved c:1/2 m:3/4 f:5/6 ma:7/8", header)
}
