package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// PostgreSQL runs a multi-statement simple query in one implicit transaction.
	ddl := `
CREATE TABLE IF NOT EXISTS characters (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL,
    name         TEXT NOT NULL DEFAULT '',
    strength     INTEGER NOT NULL,
    dexterity    INTEGER NOT NULL,
    constitution INTEGER NOT NULL,
    intelligence INTEGER NOT NULL,
    wisdom       INTEGER NOT NULL,
    charisma     INTEGER NOT NULL,
    luck         BOOLEAN NOT NULL DEFAULT FALSE,
    is_default   BOOLEAN NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);

CREATE INDEX IF NOT EXISTS idx_characters_user ON characters (user_id);
CREATE UNIQUE INDEX IF NOT EXISTS uq_characters_default ON characters (user_id) WHERE is_default;
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
