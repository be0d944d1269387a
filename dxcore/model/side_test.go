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
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSide_String(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want string
	}{
		{"SideClient", SideClient, "client"},
		{"SideServer", SideServer, "server"},
		{"SideMerged", SideMerged, "merged"},
		{"SideUnknown", SideUnknown, "unknown"},
		{"Out of range", Side(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.side.String(); got != tt.want {
				t.Errorf("Side.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Side
		wantErr bool
	}{
		{"client", "client", SideClient, false},
		{"Client", "Client", SideClient, false},
		{"server", "server", SideServer, false},
		{"Server", "Server", SideServer, false},
		{"merged", "merged", SideMerged, false},
		{"Merged", "Merged", SideMerged, false},

		{"empty", "", SideUnknown, true},
		{"cross is a bucket not a side", "cross", SideUnknown, true},
		{"uppercase", "CLIENT", SideUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSide(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSide() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseSide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSide_Validate(t *testing.T) {
	tests := []struct {
		name    string
		side    Side
		wantErr bool
	}{
		{"client", SideClient, false},
		{"server", SideServer, false},
		{"merged", SideMerged, false},
		{"zero value", SideUnknown, true},
		{"out of range", Side(7), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.side.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSide_IsZero(t *testing.T) {
	if !SideUnknown.IsZero() {
		t.Error("SideUnknown.IsZero() = false, want true")
	}
	if SideMerged.IsZero() {
		t.Error("SideMerged.IsZero() = true, want false")
	}
}

func TestSide_JSON(t *testing.T) {
	for _, side := range []Side{SideClient, SideServer, SideMerged} {
		t.Run(side.String(), func(t *testing.T) {
			data, err := json.Marshal(side)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if want := `"` + side.String() + `"`; string(data) != want {
				t.Errorf("json.Marshal() = %s, want %s", data, want)
			}
			var got Side
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if got != side {
				t.Errorf("json round-trip = %v, want %v", got, side)
			}
		})
	}

	if _, err := json.Marshal(SideUnknown); err == nil {
		t.Error("Expected error marshaling SideUnknown, got nil")
	}

	var s Side
	if err := json.Unmarshal([]byte(`"both"`), &s); err == nil {
		t.Error("Expected error unmarshaling unknown side, got nil")
	}
	if err := json.Unmarshal([]byte(`1`), &s); err == nil {
		t.Error("Expected error unmarshaling numeric side, got nil")
	}
}

func TestSide_YAML(t *testing.T) {
	type doc struct {
		Side Side `yaml:"side"`
	}

	data, err := yaml.Marshal(doc{Side: SideServer})
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if string(data) != "side: server\n" {
		t.Errorf("yaml.Marshal() = %q, want %q", data, "side: server\n")
	}

	var got doc
	if err := yaml.Unmarshal([]byte("side: merged\n"), &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if got.Side != SideMerged {
		t.Errorf("yaml.Unmarshal() = %v, want %v", got.Side, SideMerged)
	}

	if err := yaml.Unmarshal([]byte("side: cross\n"), &got); err == nil {
		t.Error("Expected error unmarshaling cross, got nil")
	}
}

func TestSide_Text(t *testing.T) {
	var s Side
	if err := s.UnmarshalText([]byte("client")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if s != SideClient {
		t.Errorf("UnmarshalText() = %v, want %v", s, SideClient)
	}
	if _, err := Side(42).MarshalText(); err == nil {
		t.Error("Expected error marshaling invalid Side as text, got nil")
	}
}
