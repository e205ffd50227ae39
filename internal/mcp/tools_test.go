package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcanist/internal/character"
	"arcanist/internal/check"
	"arcanist/internal/dice"
	"arcanist/internal/format"
	"arcanist/internal/service"
	"arcanist/internal/store"
)

type mockStore struct {
	store.Store

	character *character.Snapshot
	created   store.CharacterInput
	spent     bool
}

func (m *mockStore) GetDefaultCharacter(ctx context.Context, userID string) (*character.Snapshot, error) {
	if m.character == nil || m.character.UserID != userID {
		return nil, nil
	}
	copied := *m.character
	return &copied, nil
}

func (m *mockStore) CreateCharacter(ctx context.Context, in store.CharacterInput) (*character.Snapshot, error) {
	m.created = in
	m.character = &character.Snapshot{ID: "c-new", UserID: in.UserID, Name: in.Name, Scores: in.Scores, Luck: in.Luck, Default: true}
	copied := *m.character
	return &copied, nil
}

func (m *mockStore) SpendLuck(ctx context.Context, id string) (bool, error) {
	if m.character == nil || !m.character.Luck {
		return false, nil
	}
	m.character.Luck = false
	m.spent = true
	return true, nil
}

func newTestServer(t *testing.T, st *mockStore, draws ...float64) *Server {
	t.Helper()
	roller, err := dice.NewRoller(dice.NewSequenceSource(draws...), format.Markdown)
	require.NoError(t, err)
	resolver, err := check.NewResolver(roller, format.Markdown)
	require.NoError(t, err)
	svc, err := service.New(service.Options{Roller: roller, Resolver: resolver, Store: st, Surface: "mcp"})
	require.NoError(t, err)
	return NewServer(svc, "test")
}

func luckyCharacter() *character.Snapshot {
	return &character.Snapshot{
		ID:     "c-1",
		UserID: "u-1",
		Name:   "Vesna",
		Scores: character.Scores{Strength: 8, Dexterity: 16, Constitution: 12, Intelligence: 10, Wisdom: 10, Charisma: 10},
		Luck:   true,
	}
}

func TestRollCheck_NoCharacter(t *testing.T) {
	server := newTestServer(t, &mockStore{}, 0.5)

	_, output, err := server.handleRollCheck(context.Background(), nil, RollCheckInput{UserName: "kit", Modifier: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "kit attempts a check!\n1d20 (11) + 2 = 13", output.Message)
	assert.Empty(t, output.Actions)
}

func TestRollCheckThenReroll(t *testing.T) {
	st := &mockStore{character: luckyCharacter()}
	server := newTestServer(t, st, 0.2, 0.7)

	_, first, err := server.handleRollCheck(context.Background(), nil, RollCheckInput{UserID: "u-1", Stat: "Dexterity", Difficulty: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, "Vesna attempts a DC 10 Dexterity check!\n1d20 (5) + 3 = 8; **Failure**", first.Message)
	require.Len(t, first.Actions, 1)
	assert.Equal(t, "Reroll", first.Actions[0].Title)

	_, second, err := server.handleRerollCheck(context.Background(), nil, RerollCheckInput{UserID: "u-1", ActionID: first.Actions[0].ID})
	require.NoError(t, err)
	assert.Equal(t, "Vesna attempts a DC 10 Dexterity check!\n1d20 (15) + 3 = 18; **Success!**", second.Message)
	assert.True(t, st.spent, "luck should be spent")
	assert.Empty(t, second.Actions, "reroll should not offer another action")
}

func TestRerollCheck_RejectedTokenKeepsLuck(t *testing.T) {
	st := &mockStore{character: luckyCharacter()}
	server := newTestServer(t, st)

	_, _, err := server.handleRerollCheck(context.Background(), nil, RerollCheckInput{UserID: "u-1", ActionID: "check-reroll-n:1;s:Luck"})
	require.Error(t, err)
	assert.False(t, st.spent)
	assert.True(t, st.character.Luck)
}

func TestRerollCheck_StaleToken(t *testing.T) {
	server := newTestServer(t, &mockStore{})

	_, _, err := server.handleRerollCheck(context.Background(), nil, RerollCheckInput{ActionID: "check-reroll-n:two"})
	require.Error(t, err)
	assert.Equal(t, "This action is no longer valid.", err.Error())
}

func TestRerollCheck_RequiresActionID(t *testing.T) {
	server := newTestServer(t, &mockStore{})

	_, _, err := server.handleRerollCheck(context.Background(), nil, RerollCheckInput{})
	assert.Error(t, err)
}

func TestRollDie(t *testing.T) {
	server := newTestServer(t, &mockStore{}, 0.95, 0.1)

	_, output, err := server.handleRollDie(context.Background(), nil, RollDieInput{Sides: 20, Disadvantage: true})
	require.NoError(t, err)
	assert.Equal(t, 3, output.Kept)
	assert.Equal(t, "1d20 (~~20~~, 3) = 3", output.Message)
}

func TestRollDie_InvalidSides(t *testing.T) {
	server := newTestServer(t, &mockStore{})

	_, _, err := server.handleRollDie(context.Background(), nil, RollDieInput{Sides: 0})
	assert.Error(t, err)
}

func TestCreateAndGetCharacter(t *testing.T) {
	st := &mockStore{}
	server := newTestServer(t, st)

	_, created, err := server.handleCreateCharacter(context.Background(), nil, CreateCharacterInput{UserID: "u-2", Name: "Orla", Stats: "14:12:10:8:15:13"})
	require.NoError(t, err)
	assert.True(t, st.created.Luck)
	assert.Equal(t, "u-2", st.created.UserID)
	assert.Equal(t, "14:12:10:8:15:13", created.Stats)
	assert.Equal(t, 2, created.Modifiers["Wisdom"])

	_, got, err := server.handleGetCharacter(context.Background(), nil, GetCharacterInput{UserID: "u-2"})
	require.NoError(t, err)
	assert.Equal(t, "Orla", got.Name)
	assert.True(t, got.Luck)
}

func TestCreateCharacter_BadStats(t *testing.T) {
	server := newTestServer(t, &mockStore{})

	_, _, err := server.handleCreateCharacter(context.Background(), nil, CreateCharacterInput{UserID: "u-2", Stats: "14:12"})
	assert.Error(t, err)
}

func TestGetCharacter_NotFound(t *testing.T) {
	server := newTestServer(t, &mockStore{})

	_, _, err := server.handleGetCharacter(context.Background(), nil, GetCharacterInput{UserID: "nobody"})
	assert.Error(t, err)
}

func TestRollStats(t *testing.T) {
	draws := make([]float64, 18)
	server := newTestServer(t, &mockStore{}, draws...)

	_, output, err := server.handleRollStats(context.Background(), nil, RollStatsInput{})
	require.NoError(t, err)
	require.Len(t, output.Stats, 6)
	assert.EqualValues(t, "Strength", output.Stats[0].Ability)
	assert.Equal(t, 3, output.Stats[0].Score)
	assert.Nil(t, output.Character, "stats were not meant to be saved")
}

func intPtr(v int) *int { return &v }
