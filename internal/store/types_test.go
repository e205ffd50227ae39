package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcanist/internal/character"
	apperrors "arcanist/internal/errors"
)

type mockStore struct {
	Store

	snapshot   *character.Snapshot
	err        error
	lastUserID string
}

func (m *mockStore) GetDefaultCharacter(ctx context.Context, userID string) (*character.Snapshot, error) {
	m.lastUserID = userID
	return m.snapshot, m.err
}

func TestAsLookup(t *testing.T) {
	t.Run("returns default character", func(t *testing.T) {
		snap := &character.Snapshot{ID: "c-1", Name: "Brannoc"}
		s := &mockStore{snapshot: snap}

		got, err := AsLookup(s).Lookup(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Same(t, snap, got)
		assert.Equal(t, "u-1", s.lastUserID)
	})

	t.Run("absent character is not an error", func(t *testing.T) {
		got, err := AsLookup(&mockStore{}).Lookup(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("empty user skips the store", func(t *testing.T) {
		s := &mockStore{err: fmt.Errorf("should not be called")}
		got, err := AsLookup(s).Lookup(context.Background(), "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("failures become store errors", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		_, err := AsLookup(&mockStore{err: cause}).Lookup(context.Background(), "u-1")
		assert.True(t, errors.Is(err, apperrors.ErrStore))
		assert.True(t, errors.Is(err, cause))
	})
}

func TestNewCharacterID(t *testing.T) {
	id := NewCharacterID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewCharacterID())
}
