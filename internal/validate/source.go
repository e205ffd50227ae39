package validate

import (
	"context"

	"arcanist/internal/character"
)

type CharacterSource interface {
	AllCharacters(ctx context.Context) ([]character.Snapshot, error)
}
