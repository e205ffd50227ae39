package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"arcanist/internal/character"
	apperrors "arcanist/internal/errors"
	"arcanist/internal/store"
)

const characterColumns = `id, user_id, name, strength, dexterity, constitution, intelligence, wisdom, charisma, luck, is_default`

// CreateCharacter inserts a character. A user's first character becomes their default.
func (c *Client) CreateCharacter(ctx context.Context, in store.CharacterInput) (*character.Snapshot, error) {
	snap := &character.Snapshot{
		ID:     store.NewCharacterID(),
		UserID: in.UserID,
		Name:   store.NormalizeName(in.Name),
		Scores: in.Scores,
		Luck:   in.Luck,
	}

	err := pgx.BeginFunc(ctx, c.pool, func(tx pgx.Tx) error {
		var existing int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM characters WHERE user_id = $1`, in.UserID).Scan(&existing); err != nil {
			return fmt.Errorf("counting characters: %w", err)
		}
		snap.Default = existing == 0

		query := `
INSERT INTO characters (` + characterColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
		_, err := tx.Exec(ctx, query,
			snap.ID,
			snap.UserID,
			snap.Name,
			snap.Scores.Strength,
			snap.Scores.Dexterity,
			snap.Scores.Constitution,
			snap.Scores.Intelligence,
			snap.Scores.Wisdom,
			snap.Scores.Charisma,
			snap.Luck,
			snap.Default,
		)
		if err != nil {
			return fmt.Errorf("inserting character: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (c *Client) GetCharacter(ctx context.Context, id string) (*character.Snapshot, error) {
	row := c.pool.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1`, id)
	snap, err := scanCharacter(row)
	if err != nil {
		return nil, fmt.Errorf("getting character: %w", err)
	}
	return snap, nil
}

func (c *Client) GetDefaultCharacter(ctx context.Context, userID string) (*character.Snapshot, error) {
	row := c.pool.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE user_id = $1 AND is_default`, userID)
	snap, err := scanCharacter(row)
	if err != nil {
		return nil, fmt.Errorf("getting default character: %w", err)
	}
	return snap, nil
}

func (c *Client) ListCharacters(ctx context.Context, userID string) ([]character.Snapshot, error) {
	rows, err := c.pool.Query(ctx, `SELECT `+characterColumns+` FROM characters WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	return collectCharacters(rows)
}

func (c *Client) AllCharacters(ctx context.Context) ([]character.Snapshot, error) {
	rows, err := c.pool.Query(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY user_id, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing all characters: %w", err)
	}
	return collectCharacters(rows)
}

func collectCharacters(rows pgx.Rows) ([]character.Snapshot, error) {
	defer rows.Close()

	var out []character.Snapshot
	for rows.Next() {
		snap, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("listing characters: %w", err)
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating characters: %w", err)
	}
	return out, nil
}

func (c *Client) SetDefaultCharacter(ctx context.Context, userID, id string) error {
	return pgx.BeginFunc(ctx, c.pool, func(tx pgx.Tx) error {
		var owned bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM characters WHERE id = $1 AND user_id = $2)`, id, userID).Scan(&owned)
		if err != nil {
			return fmt.Errorf("checking character owner: %w", err)
		}
		if !owned {
			return apperrors.WithMetadata(apperrors.CodeNotFound, "character not found",
				map[string]string{"id": id, "user_id": userID})
		}

		if _, err := tx.Exec(ctx, `UPDATE characters SET is_default = FALSE WHERE user_id = $1 AND is_default`, userID); err != nil {
			return fmt.Errorf("clearing default character: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE characters SET is_default = TRUE WHERE id = $1`, id); err != nil {
			return fmt.Errorf("setting default character: %w", err)
		}
		return nil
	})
}

func (c *Client) SetLuck(ctx context.Context, id string, luck bool) error {
	tag, err := c.pool.Exec(ctx, `UPDATE characters SET luck = $1 WHERE id = $2`, luck, id)
	if err != nil {
		return fmt.Errorf("setting luck: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound, "character not found", map[string]string{"id": id})
	}
	return nil
}

// SpendLuck clears the character's luck and reports whether there was any to spend.
func (c *Client) SpendLuck(ctx context.Context, id string) (bool, error) {
	tag, err := c.pool.Exec(ctx, `UPDATE characters SET luck = FALSE WHERE id = $1 AND luck`, id)
	if err != nil {
		return false, fmt.Errorf("spending luck: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanCharacter(row pgx.Row) (*character.Snapshot, error) {
	var snap character.Snapshot
	err := row.Scan(
		&snap.ID,
		&snap.UserID,
		&snap.Name,
		&snap.Scores.Strength,
		&snap.Scores.Dexterity,
		&snap.Scores.Constitution,
		&snap.Scores.Intelligence,
		&snap.Scores.Wisdom,
		&snap.Scores.Charisma,
		&snap.Luck,
		&snap.Default,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
