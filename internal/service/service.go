// Package service is the caller side of the dice core: it bounds requests,
// looks up characters, gates rerolls on luck and records metrics. The CLI
// and the MCP server both drive it.
package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"arcanist/internal/action"
	"arcanist/internal/character"
	"arcanist/internal/check"
	"arcanist/internal/dice"
	apperrors "arcanist/internal/errors"
	"arcanist/internal/observability"
	"arcanist/internal/store"
)

// Service wires the resolver to a character store.
type Service struct {
	roller         *dice.Roller
	resolver       *check.Resolver
	store          store.Store
	metrics        *observability.Metrics
	logger         *zap.Logger
	surface        string
	maxRepetitions int
}

// Options configures a Service. Metrics and Logger may be nil.
type Options struct {
	Roller         *dice.Roller
	Resolver       *check.Resolver
	Store          store.Store
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	Surface        string
	MaxRepetitions int
}

func New(opts Options) (*Service, error) {
	if opts.Roller == nil || opts.Resolver == nil {
		return nil, apperrors.New(apperrors.CodeConfiguration, "service requires a roller and a resolver")
	}
	if opts.Store == nil {
		return nil, apperrors.New(apperrors.CodeConfiguration, "service requires a character store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		roller:         opts.Roller,
		resolver:       opts.Resolver,
		store:          opts.Store,
		metrics:        opts.Metrics,
		logger:         logger,
		surface:        opts.Surface,
		maxRepetitions: opts.MaxRepetitions,
	}, nil
}

// User identifies the person issuing a command.
type User struct {
	ID   string
	Name string
}

// CheckInput mirrors the check command's arguments.
type CheckInput struct {
	Modifier     *int
	Difficulty   *int
	Stat         string
	Advantage    bool
	Disadvantage bool
	Repetitions  int
}

// Check resolves a check for the user's active character. A reroll action is
// offered only when that character has luck to spend.
func (s *Service) Check(ctx context.Context, user User, in CheckInput) (check.Outcome, error) {
	if err := s.boundRepetitions(in.Repetitions); err != nil {
		return check.Outcome{}, err
	}

	snap, err := s.lookup(ctx, user.ID)
	if err != nil {
		return check.Outcome{}, err
	}

	req := check.Request{
		Modifier:     in.Modifier,
		Difficulty:   in.Difficulty,
		Stat:         in.Stat,
		Advantage:    in.Advantage,
		Disadvantage: in.Disadvantage,
		Repetitions:  in.Repetitions,
		ActorName:    user.Name,
		Character:    snap,
	}

	var outcome check.Outcome
	if snap != nil && snap.Luck {
		outcome, err = s.resolver.ResolveCheckWithActions(req)
	} else {
		outcome, err = s.resolver.ResolveCheck(req)
	}
	if err != nil {
		s.logger.Warn("check rejected", zap.String("user_id", user.ID), zap.Error(err))
		return check.Outcome{}, err
	}

	s.metrics.RecordCheck(s.surface, in.Difficulty != nil, len(outcome.Lines)-summaryLines(in), outcome.Successes)
	s.logger.Debug("check resolved",
		zap.String("user_id", user.ID),
		zap.Bool("has_character", snap != nil),
		zap.Int("successes", outcome.Successes),
		zap.Int("actions", len(outcome.Actions)),
	)
	return outcome, nil
}

// Reroll resolves a reroll action. The ID may carry the check-reroll- prefix.
// Tokens tied to a character spend that character's luck, but only once the
// token has resolved; a rejected token leaves luck untouched.
func (s *Service) Reroll(ctx context.Context, user User, id string) (check.Outcome, error) {
	token := id
	if stripped, err := action.ParseRerollID(id); err == nil {
		token = stripped
	}

	fields, err := action.Decode(token)
	if err != nil {
		s.metrics.RecordTokenFailure()
		s.logger.Info("stale reroll token", zap.String("user_id", user.ID), zap.String("token", token), zap.Error(err))
		return check.Outcome{}, err
	}
	if fields.Repetitions != nil {
		if err := s.boundRepetitions(*fields.Repetitions); err != nil {
			return check.Outcome{}, err
		}
	}

	var (
		lookup character.Lookup
		snap   *character.Snapshot
	)
	if fields.NoCharacter == nil || !*fields.NoCharacter {
		snap, err = s.lookup(ctx, user.ID)
		if err != nil {
			return check.Outcome{}, err
		}
		if snap != nil && !snap.Luck {
			return check.Outcome{}, noLuck(snap)
		}
		lookup = character.LookupFunc(func(context.Context, string) (*character.Snapshot, error) {
			return snap, nil
		})
	}

	outcome, err := s.resolver.ResolveReroll(ctx, token, check.Actor{ID: user.ID, Name: user.Name}, lookup)
	if err != nil {
		s.logger.Warn("reroll rejected", zap.String("user_id", user.ID), zap.Error(err))
		return check.Outcome{}, err
	}

	if snap != nil {
		spent, err := s.store.SpendLuck(ctx, snap.ID)
		if err != nil {
			s.metrics.RecordStoreError("spend_luck")
			return check.Outcome{}, apperrors.Wrap(apperrors.CodeStore, "spending luck", err)
		}
		// Another reroll spent it between the lookup and now.
		if !spent {
			return check.Outcome{}, noLuck(snap)
		}
	}

	s.metrics.RecordReroll(s.surface)
	s.logger.Debug("reroll resolved", zap.String("user_id", user.ID), zap.Int("successes", outcome.Successes))
	return outcome, nil
}

func noLuck(snap *character.Snapshot) error {
	return apperrors.WithMetadata(apperrors.CodeValidation, "no luck left to reroll",
		map[string]string{"character_id": snap.ID})
}

func (s *Service) lookup(ctx context.Context, userID string) (*character.Snapshot, error) {
	snap, err := store.AsLookup(s.store).Lookup(ctx, userID)
	if err != nil {
		s.metrics.RecordStoreError("lookup")
		s.logger.Error("character lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return snap, nil
}

func (s *Service) boundRepetitions(n int) error {
	if s.maxRepetitions > 0 && n > s.maxRepetitions {
		return apperrors.WithMetadata(apperrors.CodeValidation,
			fmt.Sprintf("at most %d repetitions are allowed", s.maxRepetitions),
			map[string]string{"repetitions": strconv.Itoa(n)})
	}
	return nil
}

func summaryLines(in CheckInput) int {
	if in.Difficulty != nil && in.Repetitions > 1 {
		return 1
	}
	return 0
}
