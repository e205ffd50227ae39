package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"arcanist/internal/character"
	apperrors "arcanist/internal/errors"
	"arcanist/internal/store"
)

const characterColumns = `id, user_id, name, strength, dexterity, constitution, intelligence, wisdom, charisma, luck, is_default`

// CreateCharacter inserts a character. A user's first character becomes their default.
func (c *Client) CreateCharacter(ctx context.Context, in store.CharacterInput) (*character.Snapshot, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters WHERE user_id = ?`, in.UserID).Scan(&existing); err != nil {
		return nil, fmt.Errorf("counting characters: %w", err)
	}

	snap := &character.Snapshot{
		ID:      store.NewCharacterID(),
		UserID:  in.UserID,
		Name:    store.NormalizeName(in.Name),
		Scores:  in.Scores,
		Luck:    in.Luck,
		Default: existing == 0,
	}

	query := `
	INSERT INTO characters (` + characterColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		snap.ID,
		snap.UserID,
		snap.Name,
		snap.Scores.Strength,
		snap.Scores.Dexterity,
		snap.Scores.Constitution,
		snap.Scores.Intelligence,
		snap.Scores.Wisdom,
		snap.Scores.Charisma,
		boolToInt(snap.Luck),
		boolToInt(snap.Default),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting character: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing character: %w", err)
	}
	return snap, nil
}

func (c *Client) GetCharacter(ctx context.Context, id string) (*character.Snapshot, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = ?`, id)
	snap, err := scanCharacter(row)
	if err != nil {
		return nil, fmt.Errorf("getting character: %w", err)
	}
	return snap, nil
}

func (c *Client) GetDefaultCharacter(ctx context.Context, userID string) (*character.Snapshot, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE user_id = ? AND is_default = 1`, userID)
	snap, err := scanCharacter(row)
	if err != nil {
		return nil, fmt.Errorf("getting default character: %w", err)
	}
	return snap, nil
}

func (c *Client) ListCharacters(ctx context.Context, userID string) ([]character.Snapshot, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE user_id = ? ORDER BY created_at, rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	return collectCharacters(rows)
}

func (c *Client) AllCharacters(ctx context.Context) ([]character.Snapshot, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY user_id, created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing all characters: %w", err)
	}
	return collectCharacters(rows)
}

func collectCharacters(rows *sql.Rows) ([]character.Snapshot, error) {
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
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var owned int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters WHERE id = ? AND user_id = ?`, id, userID).Scan(&owned); err != nil {
		return fmt.Errorf("checking character owner: %w", err)
	}
	if owned == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound, "character not found",
			map[string]string{"id": id, "user_id": userID})
	}

	if _, err := tx.ExecContext(ctx, `UPDATE characters SET is_default = 0 WHERE user_id = ? AND is_default = 1`, userID); err != nil {
		return fmt.Errorf("clearing default character: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE characters SET is_default = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("setting default character: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing default character: %w", err)
	}
	return nil
}

func (c *Client) SetLuck(ctx context.Context, id string, luck bool) error {
	res, err := c.db.ExecContext(ctx, `UPDATE characters SET luck = ? WHERE id = ?`, boolToInt(luck), id)
	if err != nil {
		return fmt.Errorf("setting luck: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting luck: %w", err)
	}
	if n == 0 {
		return apperrors.WithMetadata(apperrors.CodeNotFound, "character not found", map[string]string{"id": id})
	}
	return nil
}

// SpendLuck clears the character's luck and reports whether there was any to spend.
func (c *Client) SpendLuck(ctx context.Context, id string) (bool, error) {
	res, err := c.db.ExecContext(ctx, `UPDATE characters SET luck = 0 WHERE id = ? AND luck = 1`, id)
	if err != nil {
		return false, fmt.Errorf("spending luck: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("spending luck: %w", err)
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (*character.Snapshot, error) {
	var snap character.Snapshot
	var luck, isDefault int
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
		&luck,
		&isDefault,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	snap.Luck = luck == 1
	snap.Default = isDefault == 1
	return &snap, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
