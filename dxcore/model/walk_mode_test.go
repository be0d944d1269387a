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

func TestWalkMode_String(t *testing.T) {
	tests := []struct {
		name string
		mode WalkMode
		want string
	}{
		{"SingleShot", SingleShot, "single-shot"},
		{"Exhaustive", Exhaustive, "exhaustive"},
		{"Unknown", WalkMode(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.want {
				t.Errorf("WalkMode.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseWalkMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    WalkMode
		wantErr bool
	}{
		{"kebab", "single-shot", SingleShot, false},
		{"camel", "SingleShot", SingleShot, false},
		{"snake", "single_shot", SingleShot, false},
		{"command name next", "next", SingleShot, false},
		{"exhaustive", "exhaustive", Exhaustive, false},
		{"Exhaustive", "Exhaustive", Exhaustive, false},
		{"command name fill", "fill", Exhaustive, false},

		{"empty", "", SingleShot, true},
		{"invalid", "forever", SingleShot, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWalkMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseWalkMode() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWalkMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkMode_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    WalkMode
		wantErr bool
	}{
		{"single-shot string", `"single-shot"`, SingleShot, false},
		{"exhaustive string", `"exhaustive"`, Exhaustive, false},
		{"single-shot numeric", `0`, SingleShot, false},
		{"exhaustive numeric", `1`, Exhaustive, false},

		{"empty string", `""`, SingleShot, true},
		{"invalid number", `99`, SingleShot, true},
		{"empty data", ``, SingleShot, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got WalkMode
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Errorf("WalkMode.UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("WalkMode.UnmarshalJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkMode_YAML(t *testing.T) {
	for _, mode := range []WalkMode{SingleShot, Exhaustive} {
		t.Run(mode.String(), func(t *testing.T) {
			data, err := yaml.Marshal(mode)
			if err != nil {
				t.Fatalf("yaml.Marshal() error = %v", err)
			}
			if string(data) != mode.String()+"\n" {
				t.Errorf("yaml.Marshal() = %q, want %q", data, mode.String()+"\n")
			}
			var got WalkMode
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("yaml.Unmarshal() error = %v", err)
			}
			if got != mode {
				t.Errorf("yaml.Unmarshal() = %v, want %v", got, mode)
			}
		})
	}
}

func TestWalkMode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mode    WalkMode
		wantErr bool
	}{
		{"SingleShot valid", SingleShot, false},
		{"Exhaustive valid", Exhaustive, false},
		{"Invalid negative", WalkMode(-1), true},
		{"Invalid positive", WalkMode(99), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mode.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWalkMode_IsZero(t *testing.T) {
	if !SingleShot.IsZero() {
		t.Error("SingleShot.IsZero() = false, want true")
	}
	if Exhaustive.IsZero() {
		t.Error("Exhaustive.IsZero() = true, want false")
	}
}

func TestWalkMode_Equal(t *testing.T) {
	tests := []struct {
		name string
		m1   WalkMode
		m2   any
		want bool
	}{
		{"equal", Exhaustive, Exhaustive, true},
		{"different", SingleShot, Exhaustive, false},
		{"pointer equal", Exhaustive, func() *WalkMode { m := Exhaustive; return &m }(), true},
		{"nil pointer", SingleShot, (*WalkMode)(nil), false},
		{"different type", SingleShot, "single-shot", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m1.Equal(tt.m2); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkMode_MarshalText_Invalid(t *testing.T) {
	if _, err := WalkMode(99).MarshalText(); err == nil {
		t.Error("Expected error marshaling invalid WalkMode as text, got nil")
	}
}
