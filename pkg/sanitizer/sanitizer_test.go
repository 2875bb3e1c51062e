package sanitizer

import (
	"reflect"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims", "  Ravi Kumar  ", "Ravi Kumar"},
		{"collapses spaces", "12   MG   Road", "12 MG Road"},
		{"replaces control characters", "Ward\t4\nBlock\x00B", "Ward 4 Block B"},
		{"keeps case and unicode", "Śrī Hospital", "Śrī Hospital"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ka-01 ab 1234", "KA01AB1234"},
		{"KA01AB1234", "KA01AB1234"},
		{" dl/04/2019/0012 ", "DL0420190012"},
		{"---", ""},
	}

	for _, tt := range tests {
		if got := SanitizeIdentifier(tt.input); got != tt.want {
			t.Errorf("SanitizeIdentifier(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  Admin@AmbuLink.IO "); got != "admin@ambulink.io" {
		t.Errorf("SanitizeEmail() = %q", got)
	}
}

func TestSanitizeSlice(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"dedupes after strategy", []string{"Oxygen", " Oxygen ", "Stretcher"}, []string{"Oxygen", "Stretcher"}},
		{"drops empties", []string{"", "  ", "Wheelchair"}, []string{"Wheelchair"}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeSlice(tt.input, SanitizeText)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SanitizeSlice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPipeline_AppliesInOrder(t *testing.T) {
	p := Pipeline{
		func(s string) string { return s + "a" },
		func(s string) string { return s + "b" },
	}
	if got := p.Apply("x"); got != "xab" {
		t.Errorf("Apply() = %q, want %q", got, "xab")
	}
}
