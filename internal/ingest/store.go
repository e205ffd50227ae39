package ingest

import (
	"context"

	"arcanist/internal/character"
	"arcanist/internal/store"
)

type Store interface {
	CreateCharacter(ctx context.Context, in store.CharacterInput) (*character.Snapshot, error)
	ListCharacters(ctx context.Context, userID string) ([]character.Snapshot, error)
}
