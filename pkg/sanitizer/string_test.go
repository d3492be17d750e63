package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean",
			input: "Dana Lee",
			want:  "Dana Lee",
		},
		{
			name:  "extra internal whitespace",
			input: "Dana   Lee",
			want:  "Dana Lee",
		},
		{
			name:  "tabs and newlines",
			input: "Dana\t\nLee",
			want:  "Dana Lee",
		},
		{
			name:  "leading and trailing",
			input: "   Dana Lee   ",
			want:  "Dana Lee",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t  ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
