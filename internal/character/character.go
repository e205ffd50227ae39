// Package character holds the read-only character snapshot the check
// resolver consults, and the helpers for creating one.
package character

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "arcanist/internal/errors"
)

// DefaultName is shown for characters created without a name.
const DefaultName = "Unnamed character"

// Scores holds the six raw ability scores.
type Scores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Score returns the raw score for an ability.
func (s Scores) Score(a Ability) int {
	switch a {
	case Strength:
		return s.Strength
	case Dexterity:
		return s.Dexterity
	case Constitution:
		return s.Constitution
	case Intelligence:
		return s.Intelligence
	case Wisdom:
		return s.Wisdom
	case Charisma:
		return s.Charisma
	default:
		return 10
	}
}

// String renders the scores in sheet order, e.g. "14:12:10:8:15:13".
func (s Scores) String() string {
	parts := make([]string, 0, len(Abilities))
	for _, a := range Abilities {
		parts = append(parts, strconv.Itoa(s.Score(a)))
	}
	return strings.Join(parts, ":")
}

// ParseScores reads six colon-separated scores in sheet order.
func ParseScores(text string) (Scores, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != len(Abilities) {
		return Scores{}, apperrors.WithMetadata(apperrors.CodeValidation,
			fmt.Sprintf("expected %d scores, got %d", len(Abilities), len(parts)),
			map[string]string{"scores": text})
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 1 {
			return Scores{}, apperrors.WithMetadata(apperrors.CodeValidation,
				fmt.Sprintf("invalid %s score %q", Abilities[i], part),
				map[string]string{"scores": text})
		}
		values[i] = v
	}

	return Scores{
		Strength:     values[0],
		Dexterity:    values[1],
		Constitution: values[2],
		Intelligence: values[3],
		Wisdom:       values[4],
		Charisma:     values[5],
	}, nil
}

// Snapshot is a character as seen by one request.
type Snapshot struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Scores  Scores `json:"scores"`
	Luck    bool   `json:"luck"`
	Default bool   `json:"default"`
}

// DisplayName returns the character's name or DefaultName.
func (s *Snapshot) DisplayName() string {
	if strings.TrimSpace(s.Name) == "" {
		return DefaultName
	}
	return s.Name
}

// Modifier returns the modifier for an ability.
func (s *Snapshot) Modifier(a Ability) int {
	return Modifier(s.Scores.Score(a))
}

// Lookup resolves an actor's active character. A nil snapshot with a nil
// error means the actor has no character.
type Lookup interface {
	Lookup(ctx context.Context, actorID string) (*Snapshot, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, actorID string) (*Snapshot, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, actorID string) (*Snapshot, error) {
	return f(ctx, actorID)
}
