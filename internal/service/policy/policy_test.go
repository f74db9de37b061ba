package policy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_Examples(t *testing.T) {
	tests := []struct {
		detected int
		scored   int
		expected bool
	}{
		{0, 0, false},
		{0, 10, false},
		{1, 10, false},
		{2, 10, true},
		{1, 9, true},
		{3, 30, false},
		{4, 30, true},
		{7, 70, false},
		{10, 100, false},
		{11, 100, true},
		{1, 1, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.detected, tt.scored), func(t *testing.T) {
			assert.Equal(t, tt.expected, Decide(tt.detected, tt.scored))
		})
	}
}

func TestDecide_MatchesProportionRule(t *testing.T) {
	for scored := 0; scored <= 300; scored++ {
		for detected := 0; detected <= scored; detected++ {
			expected := false
			if scored > 0 {
				// detected/scored > 1/10 without floating point
				expected = detected*10 > scored
			}
			if got := Decide(detected, scored); got != expected {
				t.Fatalf("Decide(%d, %d) = %v, expected %v", detected, scored, got, expected)
			}
		}
	}
}
