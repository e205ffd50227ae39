package character

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcanist/internal/dice"
	apperrors "arcanist/internal/errors"
	"arcanist/internal/format"
)

func TestModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{1, -5},
		{3, -4},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{14, 2},
		{15, 2},
		{18, 4},
		{20, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Modifier(tt.score), "Modifier(%d)", tt.score)
	}
}

func TestParseAbility(t *testing.T) {
	lenient := map[string]Ability{
		"Strength":  Strength,
		"strength":  Strength,
		" strength": Strength,
		" WISDOM ":  Wisdom,
	}
	for name, want := range lenient {
		got, err := ParseAbility(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	a, err := ParseAbility("dexterity")
	require.NoError(t, err)
	assert.Equal(t, Dexterity, a)

	_, err = ParseAbility("Luck")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestParseScores(t *testing.T) {
	scores, err := ParseScores("14:12:10:8:15:13")
	require.NoError(t, err)

	assert.Equal(t, Scores{Strength: 14, Dexterity: 12, Constitution: 10, Intelligence: 8, Wisdom: 15, Charisma: 13}, scores)
	assert.Equal(t, "14:12:10:8:15:13", scores.String())

	for _, bad := range []string{"", "14:12:10", "14:12:10:8:15:x", "14:12:10:8:15:0", "1:2:3:4:5:6:7"} {
		_, err := ParseScores(bad)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "ParseScores(%q)", bad)
	}
}

func TestSnapshotDisplayNameAndModifier(t *testing.T) {
	snap := &Snapshot{Scores: Scores{Strength: 14, Wisdom: 7}}

	assert.Equal(t, DefaultName, snap.DisplayName())
	assert.Equal(t, 2, snap.Modifier(Strength))
	assert.Equal(t, -2, snap.Modifier(Wisdom))

	snap.Name = "Brannoc"
	assert.Equal(t, "Brannoc", snap.DisplayName())
}

func TestRollScores(t *testing.T) {
	draws := make([]float64, 0, 18)
	for i := 0; i < 6; i++ {
		draws = append(draws, 0.5, 0.5, 0.99)
	}
	roller, err := dice.NewRoller(dice.NewSequenceSource(draws...), format.Plain)
	require.NoError(t, err)

	scores, rolls, err := RollScores(roller)
	require.NoError(t, err)

	assert.Equal(t, "14:14:14:14:14:14", scores.String())
	require.Len(t, rolls, 6)
	assert.Equal(t, "Strength: 3d6 (4 + 4 + 6) = 14", FormatStatRolls(rolls[:1]))
}
