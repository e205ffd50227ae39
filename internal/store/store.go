package store

import (
	"context"

	"arcanist/internal/character"
)

// Store persists characters. Get methods return (nil, nil) when nothing matches.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	CreateCharacter(ctx context.Context, in CharacterInput) (*character.Snapshot, error)
	GetCharacter(ctx context.Context, id string) (*character.Snapshot, error)
	GetDefaultCharacter(ctx context.Context, userID string) (*character.Snapshot, error)
	ListCharacters(ctx context.Context, userID string) ([]character.Snapshot, error)
	AllCharacters(ctx context.Context) ([]character.Snapshot, error)
	SetDefaultCharacter(ctx context.Context, userID, id string) error
	SetLuck(ctx context.Context, id string, luck bool) error
	SpendLuck(ctx context.Context, id string) (bool, error)

	RunSQL(ctx context.Context, query string, args []any) ([]map[string]any, error)
}
