package sanitizer

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already clean",
			input: "castle",
			want:  "castle",
		},
		{
			name:  "mixed case with spaces",
			input: "Bounce Castle XL",
			want:  "bounce_castle_xl",
		},
		{
			name:  "punctuation collapses",
			input: "Castle #2 (blue)",
			want:  "castle_2_blue",
		},
		{
			name:  "leading and trailing junk",
			input: "  --Combo Slide--  ",
			want:  "combo_slide",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!!!",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeLabel(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSlice(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "dedupes after normalization",
			input: []string{"Castle #2", "castle 2", "Slide"},
			want:  []string{"castle_2", "slide"},
		},
		{
			name:  "drops empties",
			input: []string{"", "!!!", "Slide"},
			want:  []string{"slide"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeSlice(tt.input, SanitizeLabel)
			if len(got) != len(tt.want) {
				t.Fatalf("SanitizeSlice(%v) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SanitizeSlice(%v)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
