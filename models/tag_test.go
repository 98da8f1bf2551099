package models

import "testing"

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "six digits with hash", input: "#E26C2D", want: "#e26c2d"},
		{name: "six digits bare", input: "49B64E", want: "#49b64e"},
		{name: "three digits with hash", input: "#FFF", want: "#fff"},
		{name: "three digits bare", input: "abc", want: "#abc"},
		{name: "too short", input: "#ff", wantErr: true},
		{name: "four digits", input: "#ffff", wantErr: true},
		{name: "five digits", input: "fffff", wantErr: true},
		{name: "seven digits", input: "#fffffff", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "hash only", input: "#", wantErr: true},
		{name: "non hex characters", input: "#zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeColor(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeColor(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeColor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
