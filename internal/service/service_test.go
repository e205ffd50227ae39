package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcanist/internal/character"
	"arcanist/internal/check"
	"arcanist/internal/dice"
	apperrors "arcanist/internal/errors"
	"arcanist/internal/format"
	"arcanist/internal/store"
)

// memStore is an in-memory store.Store for exercising the service.
type memStore struct {
	store.Store

	chars  []*character.Snapshot
	err    error
	spends int
}

func (m *memStore) CreateCharacter(ctx context.Context, in store.CharacterInput) (*character.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.chars {
		if c.UserID == in.UserID {
			c.Default = false
		}
	}
	snap := &character.Snapshot{
		ID:      fmt.Sprintf("char-%d", len(m.chars)),
		UserID:  in.UserID,
		Name:    in.Name,
		Scores:  in.Scores,
		Luck:    in.Luck,
		Default: true,
	}
	m.chars = append(m.chars, snap)
	copied := *snap
	return &copied, nil
}

func (m *memStore) GetDefaultCharacter(ctx context.Context, userID string) (*character.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.chars {
		if c.UserID == userID && c.Default {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListCharacters(ctx context.Context, userID string) ([]character.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []character.Snapshot
	for _, c := range m.chars {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) SetDefaultCharacter(ctx context.Context, userID, id string) error {
	for _, c := range m.chars {
		if c.UserID == userID {
			c.Default = c.ID == id
		}
	}
	return nil
}

func (m *memStore) SetLuck(ctx context.Context, id string, luck bool) error {
	for _, c := range m.chars {
		if c.ID == id {
			c.Luck = luck
		}
	}
	return nil
}

func (m *memStore) SpendLuck(ctx context.Context, id string) (bool, error) {
	m.spends++
	for _, c := range m.chars {
		if c.ID == id && c.Luck {
			c.Luck = false
			return true, nil
		}
	}
	return false, nil
}

var alice = User{ID: "u-alice", Name: "alice"}

func newTestService(t *testing.T, st *memStore, draws ...float64) *Service {
	t.Helper()
	roller, err := dice.NewRoller(dice.NewSequenceSource(draws...), format.Compact)
	require.NoError(t, err)
	resolver, err := check.NewResolver(roller, format.Compact)
	require.NoError(t, err)
	svc, err := New(Options{
		Roller:         roller,
		Resolver:       resolver,
		Store:          st,
		Surface:        "test",
		MaxRepetitions: 5,
	})
	require.NoError(t, err)
	return svc
}

func seedCharacter(st *memStore, luck bool) {
	st.chars = append(st.chars, &character.Snapshot{
		ID:      "char-0",
		UserID:  alice.ID,
		Name:    "Brynn",
		Scores:  character.Scores{Strength: 14, Dexterity: 12, Constitution: 10, Intelligence: 8, Wisdom: 15, Charisma: 13},
		Luck:    luck,
		Default: true,
	})
}

func intPtr(v int) *int { return &v }

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
}

func TestCheckWithoutCharacterOffersNoReroll(t *testing.T) {
	svc := newTestService(t, &memStore{}, 0.5)

	out, err := svc.Check(context.Background(), alice, CheckInput{Difficulty: intPtr(10)})
	require.NoError(t, err)

	assert.Equal(t, "alice attempts a DC 10 check!\n1d20 (11) + 0 = 11; *Success!*", out.Message)
	assert.Empty(t, out.Actions)
}

func TestCheckWithLuckOffersReroll(t *testing.T) {
	st := &memStore{}
	seedCharacter(st, true)
	svc := newTestService(t, st, 0.5)

	out, err := svc.Check(context.Background(), alice, CheckInput{Stat: "strength", Difficulty: intPtr(12)})
	require.NoError(t, err)

	assert.Equal(t, "Brynn attempts a DC 12 Strength check!\n1d20 (11) + 2 = 13; *Success!*", out.Message)
	require.Len(t, out.Actions, 1)
	assert.Equal(t, "check-reroll-d:12;n:1;s:strength", out.Actions[0].ID)
}

func TestCheckWithoutLuckOffersNoReroll(t *testing.T) {
	st := &memStore{}
	seedCharacter(st, false)
	svc := newTestService(t, st, 0.5)

	out, err := svc.Check(context.Background(), alice, CheckInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Actions)
}

func TestCheckRejectsTooManyRepetitions(t *testing.T) {
	svc := newTestService(t, &memStore{})

	_, err := svc.Check(context.Background(), alice, CheckInput{Repetitions: 6})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCheckStoreFailure(t *testing.T) {
	svc := newTestService(t, &memStore{err: errors.New("disk gone")})

	_, err := svc.Check(context.Background(), alice, CheckInput{})
	assert.True(t, errors.Is(err, apperrors.ErrStore))
}

func TestRerollSpendsLuck(t *testing.T) {
	st := &memStore{}
	seedCharacter(st, true)
	svc := newTestService(t, st, 0.5, 0.9)

	first, err := svc.Check(context.Background(), alice, CheckInput{Stat: "Strength", Difficulty: intPtr(15)})
	require.NoError(t, err)
	require.Len(t, first.Actions, 1)

	second, err := svc.Reroll(context.Background(), alice, first.Actions[0].ID)
	require.NoError(t, err)

	assert.Equal(t, "Brynn attempts a DC 15 Strength check!\n1d20 (19) + 2 = 21; *Success!*", second.Message)
	assert.Empty(t, second.Actions)
	assert.False(t, st.chars[0].Luck)

	_, err = svc.Reroll(context.Background(), alice, first.Actions[0].ID)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestRerollRejectedTokenKeepsLuck(t *testing.T) {
	st := &memStore{}
	seedCharacter(st, true)
	svc := newTestService(t, st, 0.9)

	for _, id := range []string{"check-reroll-s:Luck", "check-reroll-n:-3"} {
		_, err := svc.Reroll(context.Background(), alice, id)
		require.Error(t, err, id)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), id)
		assert.True(t, st.chars[0].Luck, id)
	}
	assert.Zero(t, st.spends)

	out, err := svc.Reroll(context.Background(), alice, "check-reroll-n:1;s:Strength")
	require.NoError(t, err)
	assert.Equal(t, "Brynn attempts a Strength check!\n1d20 (19) + 2 = 21", out.Message)
	assert.Equal(t, 1, st.spends)
	assert.False(t, st.chars[0].Luck)
}

func TestRerollWithoutCharacterMarker(t *testing.T) {
	st := &memStore{}
	seedCharacter(st, true)
	svc := newTestService(t, st, 0.5)

	out, err := svc.Reroll(context.Background(), alice, "e:true;n:1;s:Strength")
	require.NoError(t, err)

	assert.Equal(t, "alice attempts a check!\n1d20 (11) + 0 = 11", out.Message)
	assert.Zero(t, st.spends)
	assert.True(t, st.chars[0].Luck)
}

func TestRerollStaleToken(t *testing.T) {
	svc := newTestService(t, &memStore{})

	_, err := svc.Reroll(context.Background(), alice, "check-reroll-q:1")
	require.Error(t, err)
	assert.Equal(t, "This action is no longer valid.", apperrors.CodeOf(err).UserMessage())
}

func TestRollDie(t *testing.T) {
	tests := []struct {
		name  string
		in    DieInput
		draws []float64
		want  string
	}{
		{name: "single", in: DieInput{Sides: 20}, draws: []float64{0.64}, want: "1d20 (13) = 13"},
		{name: "sum", in: DieInput{Sides: 6, Count: 3}, draws: []float64{0, 0.5, 0.99}, want: "3d6 (1 + 4 + 6) = 11"},
		{name: "advantage", in: DieInput{Sides: 20, Advantage: true}, draws: []float64{0.1, 0.6}, want: "1d20 (~3~, 13) = 13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &memStore{}, tt.draws...)
			out, err := svc.RollDie(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Message)
		})
	}
}

func TestRollStatsSaves(t *testing.T) {
	st := &memStore{}
	draws := make([]float64, 18)
	for i := range draws {
		draws[i] = 0.5
	}
	svc := newTestService(t, st, draws...)

	out, err := svc.RollStats(context.Background(), alice, "  Nim  ", true)
	require.NoError(t, err)

	require.NotNil(t, out.Character)
	assert.Equal(t, "Nim", out.Character.Name)
	assert.True(t, out.Character.Luck)
	assert.Equal(t, "12:12:12:12:12:12", out.Scores.String())
	assert.Contains(t, out.Message, "Strength: 3d6 (4 + 4 + 4) = 12")
}

func TestUseCharacterByPrefix(t *testing.T) {
	st := &memStore{}
	seedCharacter(st, true)
	svc := newTestService(t, st)

	second, err := svc.CreateCharacter(context.Background(), alice, "Other", character.Scores{})
	require.NoError(t, err)
	assert.Equal(t, "char-1", second.ID)

	snap, err := svc.UseCharacter(context.Background(), alice, "char-0")
	require.NoError(t, err)
	assert.True(t, snap.Default)

	current, err := svc.Character(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "Brynn", current.Name)

	_, err = svc.UseCharacter(context.Background(), alice, "char-")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.UseCharacter(context.Background(), alice, "nope")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCharacterMissing(t *testing.T) {
	svc := newTestService(t, &memStore{})

	_, err := svc.Character(context.Background(), alice)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
