// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantID      string
		wantVersion int
		wantErr     bool
	}{
		{"dotted", "1706.03762", "1706.03762", 0, false},
		{"dashed", "1706-03762", "1706.03762", 0, false},
		{"prefixed", "arXiv:1706.03762", "1706.03762", 0, false},
		{"versioned", "1706.03762v3", "1706.03762", 3, false},
		{"dashed versioned", "1706-03762v2", "1706.03762", 2, false},
		{"five digit", "2412.05271", "2412.05271", 0, false},
		{"four digit", "0704.0001", "0704.0001", 0, false},
		{"whitespace trimmed", "  1706.03762  ", "1706.03762", 0, false},
		{"old style rejected", "math/0211159", "", 0, true},
		{"doi rejected", "10.1145/1234567", "", 0, true},
		{"empty", "", "", 0, true},
		{"bare word", "not-an-id", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, version, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q): expected error, got %q", tt.input, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if id != tt.wantID {
				t.Errorf("Parse(%q) id = %q, want %q", tt.input, id, tt.wantID)
			}
			if version != tt.wantVersion {
				t.Errorf("Parse(%q) version = %d, want %d", tt.input, version, tt.wantVersion)
			}
		})
	}
}

func TestParseDottedDashedEquivalent(t *testing.T) {
	dotted, _, err := Parse("1706.03762")
	if err != nil {
		t.Fatal(err)
	}
	dashed, _, err := Parse("1706-03762")
	if err != nil {
		t.Fatal(err)
	}
	if dotted != dashed {
		t.Errorf("dotted and dashed inputs parse differently: %q vs %q", dotted, dashed)
	}
}

func TestDirName(t *testing.T) {
	if got := DirName("1706.03762"); got != "1706-03762" {
		t.Errorf("DirName = %q, want %q", got, "1706-03762")
	}
}

func TestDotted(t *testing.T) {
	if got := Dotted("1706-03762"); got != "1706.03762" {
		t.Errorf("Dotted = %q, want %q", got, "1706.03762")
	}
	// Round trip.
	if got := Dotted(DirName("2412.05271")); got != "2412.05271" {
		t.Errorf("Dotted(DirName()) = %q, want %q", got, "2412.05271")
	}
}

func TestEPrintURL(t *testing.T) {
	want := EPrintBase + "1706.03762v2"
	if got := EPrintURL("1706.03762", 2); got != want {
		t.Errorf("EPrintURL = %q, want %q", got, want)
	}
}

func TestAbsURL(t *testing.T) {
	want := AbsBase + "1706.03762"
	if got := AbsURL("1706.03762"); got != want {
		t.Errorf("AbsURL = %q, want %q", got, want)
	}
}
