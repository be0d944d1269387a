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

package model

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMatchKey_Layout(t *testing.T) {
	tests := []struct {
		name       string
		key        MatchKey
		era        string
		wantBucket string
		wantFile   string
		wantPath   string
	}{
		{
			name:       "cross with era",
			key:        NewMatchKey(SideClient, "1.0", SideMerged, "1.1"),
			era:        "1.1",
			wantBucket: "cross",
			wantFile:   "client-1.0#merged-1.1.match",
			wantPath:   filepath.Join("cross", "1.1", "client-1.0#merged-1.1.match"),
		},
		{
			name:       "merged without era",
			key:        NewMatchKey(SideMerged, "1.0", SideMerged, "1.1"),
			wantBucket: "merged",
			wantFile:   "1.0#1.1.match",
			wantPath:   filepath.Join("merged", "1.0#1.1.match"),
		},
		{
			name:       "client",
			key:        NewMatchKey(SideClient, "b1.7.3", SideClient, "b1.8-pre1"),
			era:        "beta",
			wantBucket: "client",
			wantFile:   "b1.7.3#b1.8-pre1.match",
			wantPath:   filepath.Join("client", "beta", "b1.7.3#b1.8-pre1.match"),
		},
		{
			name:       "server",
			key:        NewMatchKey(SideServer, "server-c1.2", SideServer, "server-c1.3"),
			era:        "classic",
			wantBucket: "server",
			wantFile:   "server-c1.2#server-c1.3.match",
			wantPath:   filepath.Join("server", "classic", "server-c1.2#server-c1.3.match"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Bucket(); got != tt.wantBucket {
				t.Errorf("Bucket() = %q, want %q", got, tt.wantBucket)
			}
			if got := tt.key.FileName(); got != tt.wantFile {
				t.Errorf("FileName() = %q, want %q", got, tt.wantFile)
			}
			if got := tt.key.RelPath(tt.era); got != tt.wantPath {
				t.Errorf("RelPath(%q) = %q, want %q", tt.era, got, tt.wantPath)
			}

			parsed, err := ParseMatchPath(tt.wantBucket, tt.wantFile)
			if err != nil {
				t.Fatalf("ParseMatchPath() error = %v", err)
			}
			if parsed != tt.key {
				t.Errorf("ParseMatchPath() = %v, want %v", parsed, tt.key)
			}
		})
	}
}

func TestParseMatchPath(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		file    string
		want    MatchKey
		wantErr bool
	}{
		{
			name:   "cross keeps launcher suffix",
			bucket: "cross",
			file:   "client-rd-132211-launcher#server-server-c1.2.match",
			want:   NewMatchKey(SideClient, "rd-132211-launcher", SideServer, "server-c1.2"),
		},
		{
			name:   "full path",
			bucket: "merged",
			file:   filepath.Join("matches", "merged", "1.12", "1.12#1.12.1.match"),
			want:   NewMatchKey(SideMerged, "1.12", SideMerged, "1.12.1"),
		},
		{name: "not a match file", bucket: "merged", file: "notes.txt", wantErr: true},
		{name: "missing delimiter", bucket: "merged", file: "1.0.match", wantErr: true},
		{name: "two delimiters", bucket: "merged", file: "a#b#c.match", wantErr: true},
		{name: "empty side", bucket: "merged", file: "#b.match", wantErr: true},
		{name: "unknown bucket", bucket: "both", file: "a#b.match", wantErr: true},
		{name: "cross without prefix", bucket: "cross", file: "a#merged-b.match", wantErr: true},
		{name: "cross unknown prefix", bucket: "cross", file: "both-a#merged-b.match", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMatchPath(tt.bucket, tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMatchPath(%q, %q) error = %v, wantErr %v", tt.bucket, tt.file, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMatchPath(%q, %q) = %v, want %v", tt.bucket, tt.file, got, tt.want)
			}
		})
	}
}

func TestMatchKey_Equal(t *testing.T) {
	k := NewMatchKey(SideClient, "1.0", SideMerged, "1.1")
	same := NewMatchKey(SideClient, "1.0", SideMerged, "1.1")
	reversed := NewMatchKey(SideMerged, "1.1", SideClient, "1.0")

	if !k.Equal(same) {
		t.Error("Equal(same) = false, want true")
	}
	if !k.Equal(&same) {
		t.Error("Equal(&same) = false, want true")
	}
	if k.Equal(reversed) {
		t.Error("Equal(reversed) = true, want false")
	}
	if k.Equal((*MatchKey)(nil)) {
		t.Error("Equal(nil) = true, want false")
	}
	if k.Equal("client-1.0") {
		t.Error("Equal(string) = true, want false")
	}
}

func TestMatchKey_Validate(t *testing.T) {
	tests := []struct {
		name    string
		key     MatchKey
		wantErr bool
	}{
		{"valid", NewMatchKey(SideClient, "1.0", SideMerged, "1.1"), false},
		{"zero", MatchKey{}, true},
		{"unknown side", NewMatchKey(SideUnknown, "1.0", SideMerged, "1.1"), true},
		{"empty version", NewMatchKey(SideClient, "", SideMerged, "1.1"), true},
		{"delimiter in version", NewMatchKey(SideClient, "1.0#x", SideMerged, "1.1"), true},
		{"separator in version", NewMatchKey(SideClient, "1.0", SideMerged, "../1.1"), true},
		{"dot dot", NewMatchKey(SideClient, "..", SideMerged, "1.1"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.key.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchKey_String(t *testing.T) {
	k := NewMatchKey(SideClient, "1.0", SideMerged, "1.1")
	if got, want := k.String(), "client-1.0 -> merged-1.1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := k.NodeA(), "client-1.0"; got != want {
		t.Errorf("NodeA() = %q, want %q", got, want)
	}
	if got, want := k.NodeB(), "merged-1.1"; got != want {
		t.Errorf("NodeB() = %q, want %q", got, want)
	}
}

func TestMatchKey_JSON(t *testing.T) {
	k := NewMatchKey(SideServer, "server-c1.2", SideServer, "server-c1.3")

	data, err := json.Marshal(k)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"sideA":"server","versionA":"server-c1.2","sideB":"server","versionB":"server-c1.3"}`
	if string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}

	var got MatchKey
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got != k {
		t.Errorf("json.Unmarshal() = %v, want %v", got, k)
	}

	if _, err := json.Marshal(MatchKey{}); err == nil {
		t.Error("json.Marshal(zero) error = nil, want error")
	}
	if err := json.Unmarshal([]byte(`{"sideA":"client","versionA":"","sideB":"client","versionB":"1.1"}`), &got); err == nil {
		t.Error("json.Unmarshal(empty version) error = nil, want error")
	}
}

func TestMatchKey_YAML(t *testing.T) {
	k := NewMatchKey(SideClient, "a1.0.4", SideMerged, "a1.0.5")

	data, err := yaml.Marshal(k)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	var got MatchKey
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if got != k {
		t.Errorf("yaml round-trip = %v, want %v", got, k)
	}
}
