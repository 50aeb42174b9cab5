package text

import "testing"

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{name: "shorter than max", text: "hello", max: 10, want: "hello"},
		{name: "exactly max", text: "hello", max: 5, want: "hello"},
		{name: "hard cut", text: "hello world", max: 5, want: "hello"},
		{name: "multibyte not split", text: "こんにちは", max: 2, want: "こん"},
		{name: "zero max", text: "hello", max: 0, want: ""},
		{name: "negative max", text: "hello", max: -1, want: ""},
		{name: "empty text", text: "", max: 5, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.text, tt.max); got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}
