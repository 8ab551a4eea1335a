package textshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidth(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"plain ascii", "x86_64", 6},
		{"empty", "", 0},
		{"doublewidth cjk", "構築", 4},
		{"combining mark collapses", "é", 1}, // e + combining acute
		{"precomposed accent", "é", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Width(tt.in))
		})
	}
}

func TestToASCII(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already ascii unchanged", "builder-01", "builder-01"},
		{"accents stripped", "Zürich-nöde", "Zurich-node"},
		{"decomposable sequence", "résumé", "resume"},
		{"unmappable runes become placeholders", "node-構築", "node-??"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ToASCII(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToASCIIOutputIsSevenBit(t *testing.T) {
	s := New()

	out, err := s.ToASCII("αβγ-Ølsen-東京")
	require.NoError(t, err)
	for _, r := range out {
		assert.LessOrEqual(t, int(r), 127)
	}
}
