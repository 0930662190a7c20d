package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_Empty(t *testing.T) {
	agg, ok := Aggregate(nil)

	assert.False(t, ok, "no reviews means no aggregate")
	assert.Equal(t, 0.0, agg)

	agg, ok = Aggregate([]float64{})
	assert.False(t, ok)
	assert.Equal(t, 0.0, agg)
}

func TestAggregate_RoundsToOneDecimal(t *testing.T) {
	tests := []struct {
		name    string
		ratings []float64
		want    float64
	}{
		{"single review", []float64{10.0}, 10.0},
		{"already one decimal", []float64{8.8, 8.6, 9.0}, 8.8},
		{"integer ratings", []float64{7, 8}, 7.5},
		{"half rounds up", []float64{7.2, 7.3}, 7.3}, // mean exactly 7.25
		{"mean needs truncation", []float64{1, 1, 2}, 1.3},
		{"all minimum", []float64{1, 1, 1}, 1.0},
		{"all maximum", []float64{10, 10, 10}, 10.0},
		{"mixed", []float64{3.5, 9.2, 6.1, 8.8}, 6.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, ok := Aggregate(tt.ratings)

			assert.True(t, ok)
			assert.InDelta(t, tt.want, agg, 1e-9)
		})
	}
}

func TestAggregate_ClampsAdversarialInput(t *testing.T) {
	// Out-of-domain values never arrive from validated reviews, but rounding
	// must still not produce an out-of-range aggregate.
	agg, ok := Aggregate([]float64{10.04})
	assert.True(t, ok)
	assert.Equal(t, 10.0, agg)

	agg, ok = Aggregate([]float64{-0.04})
	assert.True(t, ok)
	assert.Equal(t, 0.0, agg)
}

func TestAggregate_Deterministic(t *testing.T) {
	ratings := []float64{2.2, 5.7, 9.9, 4.1}

	first, ok := Aggregate(ratings)
	assert.True(t, ok)

	for i := 0; i < 10; i++ {
		again, _ := Aggregate(ratings)
		assert.Equal(t, first, again)
	}
}
