package main

import "testing"

func TestParseReference(t *testing.T) {
	tests := []struct {
		arg       string
		wantURI   string
		wantRange bool
		wantStart int
		wantEnd   int
	}{
		{"src/main.go", "src/main.go", false, 0, 0},
		{"src/main.go:10-25", "src/main.go", true, 9, 24},
		{"src/main.go:1-1", "src/main.go", true, 0, 0},
		// Not a line span: the colon stays part of the path.
		{"src/main.go:abc", "src/main.go:abc", false, 0, 0},
		{"src/main.go:25-10", "src/main.go:25-10", false, 0, 0},
		{"src/main.go:0-5", "src/main.go:0-5", false, 0, 0},
	}

	for _, tt := range tests {
		ref, err := parseReference(tt.arg)
		if err != nil {
			t.Fatalf("parseReference(%q): %v", tt.arg, err)
		}
		if ref.URI != tt.wantURI {
			t.Errorf("parseReference(%q).URI = %q, want %q", tt.arg, ref.URI, tt.wantURI)
		}
		if ref.HasRange != tt.wantRange {
			t.Errorf("parseReference(%q).HasRange = %v, want %v", tt.arg, ref.HasRange, tt.wantRange)
		}
		if ref.HasRange && (ref.StartLine != tt.wantStart || ref.EndLine != tt.wantEnd) {
			t.Errorf("parseReference(%q) lines = %d-%d, want %d-%d", tt.arg, ref.StartLine, ref.EndLine, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestFormatResponseJSONAndYAML(t *testing.T) {
	r := &SearchResult{Query: "q"}

	if _, err := FormatResponse(r, FormatJSON); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := FormatResponse(r, FormatYAML); err != nil {
		t.Errorf("yaml: %v", err)
	}
	if _, err := FormatResponse(r, FormatHuman); err != nil {
		t.Errorf("human: %v", err)
	}
	if _, err := FormatResponse(r, OutputFormat("xml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}
