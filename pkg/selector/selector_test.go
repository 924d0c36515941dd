package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refs = []string{"R1", "R2", "R9", "R10", "R11", "C1", "C12", "U1", "U2", "J1", "TP3"}

func TestCompileAndFilter(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"empty selects all", "", refs},
		{"blank selects all", "   ", refs},
		{"exact", "U2", []string{"U2"}},
		{"range", "R1-R10", []string{"R1", "R2", "R9", "R10"}},
		{"glob", "C*", []string{"C1", "C12"}},
		{"single char glob", "U?", []string{"U1", "U2"}},
		{"class glob", "[JU]1", []string{"U1", "J1"}},
		{"negation only", "!U1, !C*", []string{"R1", "R2", "R9", "R10", "R11", "U2", "J1", "TP3"}},
		{"mixed", "R1-R10, C*, !R2, !C12", []string{"R1", "R9", "R10", "C1"}},
		{"whitespace tolerant", " R9 ,U1 ", []string{"R9", "U1"}},
		{"no match", "Q1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Filter(refs))
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"mixed prefixes", "R1-C3"},
		{"reversed range", "R10-R1"},
		{"range without numbers", "R-RX"},
		{"range with glob", "R*-R3"},
		{"dangling dash", "R1-"},
		{"dangling comma", "R1,"},
		{"double negation", "!!R1"},
		{"bad glob", "R[1"},
		{"stray character", "R1; C2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr)
			assert.Error(t, err)
		})
	}
}

func TestMatch(t *testing.T) {
	s := MustCompile("!TP*")
	assert.True(t, s.Match("R1"))
	assert.False(t, s.Match("TP3"))

	assert.True(t, All().Match("anything"))
	assert.Panics(t, func() { MustCompile("R1-") })
}

func TestSplitRef(t *testing.T) {
	prefix, n, ok := splitRef("C012")
	assert.True(t, ok)
	assert.Equal(t, "C", prefix)
	assert.Equal(t, 12, n)

	_, _, ok = splitRef("GND")
	assert.False(t, ok)
}
