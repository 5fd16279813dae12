package morse

import "testing"

// TestSymbolUnits verifies symbol durations in units
func TestSymbolUnits(t *testing.T) {
	if Dot.Units() != 1 {
		t.Errorf("Expected dot to last 1 unit, got %d", Dot.Units())
	}
	if Dash.Units() != 3 {
		t.Errorf("Expected dash to last 3 units, got %d", Dash.Units())
	}
	if Gap.IsTone() {
		t.Error("Expected gap to not be a tone")
	}
	if !Dot.IsTone() || !Dash.IsTone() {
		t.Error("Expected dot and dash to be tones")
	}
}

// TestParsePattern verifies text pattern parsing
func TestParsePattern(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Pattern
		err   bool
	}{
		{"sos", "...---...", Pattern{Dot, Dot, Dot, Dash, Dash, Dash, Dot, Dot, Dot}, false},
		{"with space gap", ". .", Pattern{Dot, Gap, Dot}, false},
		{"with slash gap", ".-/.-", Pattern{Dot, Dash, Gap, Dot, Dash}, false},
		{"empty", "", nil, false},
		{"invalid rune", ".x.", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePattern(tt.input)
			if tt.err {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d symbols, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Symbol %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

// TestPatternTones verifies the tone count excludes gaps
func TestPatternTones(t *testing.T) {
	p := Pattern{Dot, Gap, Dash, Dot, Gap}
	if p.Tones() != 3 {
		t.Errorf("Expected 3 tones, got %d", p.Tones())
	}
}

// TestEncode verifies text to pattern encoding
func TestEncode(t *testing.T) {
	// "EE" is two dots separated by one inter-letter gap
	p := Encode("ee")
	want := Pattern{Dot, Gap, Dot}
	if p.String() != want.String() {
		t.Errorf("Expected %q, got %q", want.String(), p.String())
	}

	// A word boundary widens to two gaps
	p = Encode("e e")
	want = Pattern{Dot, Gap, Gap, Dot}
	if p.String() != want.String() {
		t.Errorf("Expected %q, got %q", want.String(), p.String())
	}

	// Unknown runes are skipped
	p = Encode("e#e")
	want = Pattern{Dot, Gap, Dot}
	if p.String() != want.String() {
		t.Errorf("Expected %q, got %q", want.String(), p.String())
	}
}

// TestCode verifies single rune lookup
func TestCode(t *testing.T) {
	if Code('S') != "..." {
		t.Errorf("Expected S to be ..., got %q", Code('S'))
	}
	if Code('s') != "..." {
		t.Errorf("Expected lookup to be case-insensitive, got %q", Code('s'))
	}
	if Code('#') != "" {
		t.Errorf("Expected empty code for unknown rune, got %q", Code('#'))
	}
}
