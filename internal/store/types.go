package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"arcanist/internal/character"
	apperrors "arcanist/internal/errors"
)

// CharacterInput describes a character to create.
type CharacterInput struct {
	UserID string
	Name   string
	Scores character.Scores
	Luck   bool
}

// NewCharacterID returns a fresh character identifier.
func NewCharacterID() string {
	return uuid.NewString()
}

// NormalizeName trims the name; an empty result is stored as "".
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

type lookup struct {
	s Store
}

// AsLookup exposes the user's default character as a character.Lookup.
// Failures come back as STORE errors; a user without characters is (nil, nil).
func AsLookup(s Store) character.Lookup {
	return lookup{s: s}
}

func (l lookup) Lookup(ctx context.Context, userID string) (*character.Snapshot, error) {
	if userID == "" {
		return nil, nil
	}
	snap, err := l.s.GetDefaultCharacter(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStore, "getting default character", err)
	}
	return snap, nil
}
