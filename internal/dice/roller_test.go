package dice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "arcanist/internal/errors"
	"arcanist/internal/format"
)

func newTestRoller(t *testing.T, draws ...float64) (*Roller, *SequenceSource) {
	t.Helper()
	src := NewSequenceSource(draws...)
	roller, err := NewRoller(src, format.Compact)
	require.NoError(t, err)
	return roller, src
}

func TestNewRollerRequiresSource(t *testing.T) {
	_, err := NewRoller(nil, format.Plain)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
}

func TestRollSingleDie(t *testing.T) {
	roller, src := newTestRoller(t, 0.64)

	result, err := roller.Roll(RollRequest{Sides: 20})
	require.NoError(t, err)

	assert.Equal(t, 13, result.Kept)
	assert.Equal(t, []int{13}, result.Raw)
	assert.Equal(t, "13", result.Display)
	assert.Zero(t, src.Remaining())
}

func TestRollAdvantageAndDisadvantage(t *testing.T) {
	tests := []struct {
		name         string
		advantage    bool
		disadvantage bool
		draws        []float64
		wantKept     int
		wantRaw      []int
		wantDisplay  string
	}{
		{"advantage keeps higher", true, false, []float64{0.0, 0.9}, 19, []int{1, 19}, "~1~, 19"},
		{"advantage keeps first on higher first", true, false, []float64{0.9, 0.0}, 19, []int{19, 1}, "19, ~1~"},
		{"disadvantage keeps lower", false, true, []float64{0.0, 0.9}, 1, []int{1, 19}, "1, ~19~"},
		{"disadvantage keeps lower second", false, true, []float64{0.3, 0.1}, 3, []int{7, 3}, "~7~, 3"},
		{"tie keeps first", true, false, []float64{0.5, 0.5}, 11, []int{11, 11}, "11, ~11~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller, src := newTestRoller(t, tt.draws...)

			result, err := roller.Roll(RollRequest{Sides: 20, Advantage: tt.advantage, Disadvantage: tt.disadvantage})
			require.NoError(t, err)

			assert.Equal(t, tt.wantKept, result.Kept)
			assert.Equal(t, tt.wantRaw, result.Raw)
			assert.Equal(t, tt.wantDisplay, result.Display)
			assert.Zero(t, src.Remaining())
		})
	}
}

func TestRollAdvantageAndDisadvantageCancel(t *testing.T) {
	roller, src := newTestRoller(t, 0.64, 0.09)

	result, err := roller.Roll(RollRequest{Sides: 20, Advantage: true, Disadvantage: true})
	require.NoError(t, err)

	assert.Equal(t, 13, result.Kept)
	assert.Equal(t, []int{13}, result.Raw)
	assert.Equal(t, "13", result.Display)
	assert.Equal(t, 1, src.Remaining())
}

func TestRollAggregate(t *testing.T) {
	roller, src := newTestRoller(t, 0.99, 0.0, 0.5, 0.25)

	result, err := roller.Roll(RollRequest{Sides: 6, Aggregate: 3, Advantage: true})
	require.NoError(t, err)

	assert.Equal(t, []int{6, 1, 4}, result.Raw)
	assert.Equal(t, 11, result.Kept)
	assert.Equal(t, "6 + 1 + 4", result.Display)
	assert.Equal(t, 1, src.Remaining())
}

func TestRollFacesStayInRange(t *testing.T) {
	draws := []float64{0, 0.0001, 0.25, 0.5, 0.9999, 0.99999999, 1.0, 1.5, -0.2}
	for _, sides := range []int{1, 2, 4, 6, 8, 10, 12, 20, 100} {
		roller, _ := newTestRoller(t, draws...)

		result, err := roller.Roll(RollRequest{Sides: sides, Aggregate: len(draws)})
		require.NoError(t, err)

		sum := 0
		for _, face := range result.Raw {
			assert.GreaterOrEqual(t, face, 1, "sides=%d", sides)
			assert.LessOrEqual(t, face, sides, "sides=%d", sides)
			sum += face
		}
		assert.Equal(t, sum, result.Kept)
	}
}

func TestRollRejectsInvalidRequest(t *testing.T) {
	tests := []RollRequest{
		{Sides: 0},
		{Sides: -4},
		{Sides: 6, Aggregate: -1},
	}

	for _, tc := range tests {
		roller, src := newTestRoller(t, 0.5)
		_, err := roller.Roll(tc)
		require.ErrorIs(t, err, apperrors.ErrValidation, "Roll(%+v)", tc)
		assert.Equal(t, 1, src.Remaining(), "no draw before validation")
	}
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	first, err := NewRoller(NewSeededSource(42), format.Plain)
	require.NoError(t, err)
	second, err := NewRoller(NewLockedSource(NewSeededSource(42)), format.Plain)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		a, err := first.Roll(RollRequest{Sides: 20, Advantage: true})
		require.NoError(t, err)
		b, err := second.Roll(RollRequest{Sides: 20, Advantage: true})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestSequenceSourcePanicsWhenExhausted(t *testing.T) {
	src := NewSequenceSource(0.1)
	src.Float64()
	assert.Panics(t, func() { src.Float64() })
}
