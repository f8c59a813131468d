package language_test

import (
	"testing"

	"inspira/internal/language"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Deus é fiel em todas as suas promessas, confie sempre nele", "portuguese"},
		{"God is faithful in all of his promises, always trust him", "english"},
		{"Dios es fiel en todas sus promesas, confía siempre en él", "spanish"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := language.Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
