package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"arcanist/internal/character"
	apperrors "arcanist/internal/errors"
	"arcanist/internal/store"
)

// StatsOutcome is a freshly rolled score block, optionally saved.
type StatsOutcome struct {
	Rolls     []character.StatRoll `json:"rolls"`
	Scores    character.Scores     `json:"scores"`
	Message   string               `json:"message"`
	Character *character.Snapshot  `json:"character,omitempty"`
}

// RollStats rolls 3d6 for each ability. With save set, the scores become a new
// default character for the user, named name.
func (s *Service) RollStats(ctx context.Context, user User, name string, save bool) (StatsOutcome, error) {
	scores, rolls, err := character.RollScores(s.roller)
	if err != nil {
		return StatsOutcome{}, err
	}
	out := StatsOutcome{
		Rolls:   rolls,
		Scores:  scores,
		Message: character.FormatStatRolls(rolls),
	}
	if !save {
		return out, nil
	}
	snap, err := s.CreateCharacter(ctx, user, name, out.Scores)
	if err != nil {
		return StatsOutcome{}, err
	}
	out.Character = snap
	return out, nil
}

// CreateCharacter saves a character with luck and makes it the user's default.
func (s *Service) CreateCharacter(ctx context.Context, user User, name string, scores character.Scores) (*character.Snapshot, error) {
	if user.ID == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "a user id is required to create a character")
	}
	snap, err := s.store.CreateCharacter(ctx, store.CharacterInput{
		UserID: user.ID,
		Name:   store.NormalizeName(name),
		Scores: scores,
		Luck:   true,
	})
	if err != nil {
		s.metrics.RecordStoreError("create_character")
		return nil, apperrors.Wrap(apperrors.CodeStore, "creating character", err)
	}
	if !snap.Default {
		if err := s.store.SetDefaultCharacter(ctx, user.ID, snap.ID); err != nil {
			s.metrics.RecordStoreError("set_default")
			return nil, apperrors.Wrap(apperrors.CodeStore, "activating new character", err)
		}
		snap.Default = true
	}
	s.logger.Info("character created",
		zap.String("user_id", user.ID),
		zap.String("character_id", snap.ID),
		zap.String("scores", snap.Scores.String()),
	)
	return snap, nil
}

// Character returns the user's default character, or NOT_FOUND.
func (s *Service) Character(ctx context.Context, user User) (*character.Snapshot, error) {
	snap, err := s.lookup(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "no character for user",
			map[string]string{"user_id": user.ID})
	}
	return snap, nil
}

// Characters lists every character the user owns.
func (s *Service) Characters(ctx context.Context, user User) ([]character.Snapshot, error) {
	list, err := s.store.ListCharacters(ctx, user.ID)
	if err != nil {
		s.metrics.RecordStoreError("list_characters")
		return nil, apperrors.Wrap(apperrors.CodeStore, "listing characters", err)
	}
	return list, nil
}

// UseCharacter makes the character with id (or an unambiguous id prefix) the
// user's default.
func (s *Service) UseCharacter(ctx context.Context, user User, id string) (*character.Snapshot, error) {
	snap, err := s.ownedCharacter(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetDefaultCharacter(ctx, user.ID, snap.ID); err != nil {
		s.metrics.RecordStoreError("set_default")
		return nil, apperrors.Wrap(apperrors.CodeStore, "setting default character", err)
	}
	snap.Default = true
	return snap, nil
}

// SetLuck grants or clears luck on the user's default character.
func (s *Service) SetLuck(ctx context.Context, user User, luck bool) (*character.Snapshot, error) {
	snap, err := s.Character(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetLuck(ctx, snap.ID, luck); err != nil {
		s.metrics.RecordStoreError("set_luck")
		return nil, apperrors.Wrap(apperrors.CodeStore, "setting luck", err)
	}
	snap.Luck = luck
	return snap, nil
}

func (s *Service) ownedCharacter(ctx context.Context, user User, id string) (*character.Snapshot, error) {
	list, err := s.Characters(ctx, user)
	if err != nil {
		return nil, err
	}
	var match *character.Snapshot
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
		if id != "" && strings.HasPrefix(list[i].ID, id) {
			if match != nil {
				return nil, apperrors.WithMetadata(apperrors.CodeValidation, "character id is ambiguous",
					map[string]string{"id": id})
			}
			match = &list[i]
		}
	}
	if match == nil {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "character not found",
			map[string]string{"id": id, "user_id": user.ID})
	}
	return match, nil
}
