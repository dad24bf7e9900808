package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Pelé  ", "pelé"},
		{"SANTOS", "santos"},
		{"Grêmio", "grêmio"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in))
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pelé", "pele"},
		{"pele", "pele"},
		{"São Paulo", "sao paulo"},
		{"Grêmio", "gremio"},
		{"  BRASILEIRÃO Série A ", "brasileirao serie a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in))
	}
}

func TestFoldEquivalentSpellings(t *testing.T) {
	// Composed U+00E9 and decomposed e + U+0301 fold identically.
	assert.Equal(t, Fold("Pelé"), Fold("Pelé"))
}
