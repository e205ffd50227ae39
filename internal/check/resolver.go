// Package check resolves d20 ability checks against an optional difficulty
// and produces the chat message plus an optional reroll action.
package check

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"arcanist/internal/action"
	"arcanist/internal/character"
	"arcanist/internal/dice"
	apperrors "arcanist/internal/errors"
	"arcanist/internal/format"
)

const checkSides = 20

// Resolver runs checks. It is safe for concurrent use only if the roller's
// source is; wrap shared sources with dice.NewLockedSource.
type Resolver struct {
	roller *dice.Roller
	fmt    format.Formatter
}

// NewResolver builds a resolver. A nil formatter falls back to format.Plain.
func NewResolver(roller *dice.Roller, f format.Formatter) (*Resolver, error) {
	if roller == nil {
		return nil, apperrors.New(apperrors.CodeConfiguration, "check resolver requires a dice roller")
	}
	if f == nil {
		f = format.Plain
	}
	return &Resolver{roller: roller, fmt: f}, nil
}

// ResolveCheck rolls req and renders the outcome. Validation failures are
// reported before any dice are drawn.
func (r *Resolver) ResolveCheck(req Request) (Outcome, error) {
	var stat character.Ability
	if req.Stat != "" {
		parsed, err := character.ParseAbility(req.Stat)
		if err != nil {
			return Outcome{}, err
		}
		stat = parsed
	}
	if req.Repetitions < 0 {
		return Outcome{}, apperrors.WithMetadata(apperrors.CodeValidation, "repetitions must be at least 1",
			map[string]string{"repetitions": strconv.Itoa(req.Repetitions)})
	}

	modifier := 0
	if req.Modifier != nil {
		modifier = *req.Modifier
	}
	if stat != "" && modifier == 0 && req.Character != nil {
		modifier = req.Character.Modifier(stat)
	}

	reps := req.repetitions()
	lines := make([]string, 0, reps+1)
	successes := 0
	for i := 0; i < reps; i++ {
		roll, err := r.roller.Roll(dice.RollRequest{
			Sides:        checkSides,
			Advantage:    req.Advantage,
			Disadvantage: req.Disadvantage,
		})
		if err != nil {
			return Outcome{}, fmt.Errorf("rolling check: %w", err)
		}

		total := roll.Kept + modifier
		result := ""
		if req.Difficulty != nil {
			if total >= *req.Difficulty {
				result = "; " + r.fmt.Bold("Success!")
				successes++
			} else {
				result = "; " + r.fmt.Bold("Failure")
			}
		}
		lines = append(lines, fmt.Sprintf("1d20 (%s) + %d = %d%s", roll.Display, modifier, total, result))
	}
	if req.Difficulty != nil && reps > 1 {
		lines = append(lines, fmt.Sprintf("Successes: %d/%d", successes, reps))
	}

	message := header(req, stat) + "\n" + strings.Join(lines, "\n")
	return Outcome{
		Lines:     lines,
		Successes: successes,
		Message:   message,
		Actions:   []action.Action{},
	}, nil
}

// ResolveCheckWithActions resolves req and offers a reroll action. Whether
// the actor may spend a reroll is for the caller to decide.
func (r *Resolver) ResolveCheckWithActions(req Request) (Outcome, error) {
	outcome, err := r.ResolveCheck(req)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Actions = []action.Action{{
		ID:    action.RerollID(req.rerollFields()),
		Title: "Reroll",
	}}
	return outcome, nil
}

// ResolveReroll replays a check from a reroll token. The character is looked
// up once, before any dice are drawn, unless the token carries the
// no-character marker. The outcome never offers a further reroll.
func (r *Resolver) ResolveReroll(ctx context.Context, token string, actor Actor, lookup character.Lookup) (Outcome, error) {
	fields, err := action.Decode(token)
	if err != nil {
		return Outcome{}, err
	}

	req := requestFromFields(fields)
	req.ActorName = actor.Name
	if lookup != nil && !noCharacter(fields) {
		snap, err := lookup.Lookup(ctx, actor.ID)
		if err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeStore {
				return Outcome{}, err
			}
			return Outcome{}, apperrors.Wrap(apperrors.CodeStore, "looking up character", err)
		}
		req.Character = snap
	}

	outcome, err := r.ResolveCheck(req)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Actions = []action.Action{}
	return outcome, nil
}

func header(req Request, stat character.Ability) string {
	name := req.ActorName
	if req.Character != nil {
		name = req.Character.DisplayName()
	}
	if strings.TrimSpace(name) == "" {
		name = FallbackActorName
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" attempts a ")
	if req.Difficulty != nil {
		fmt.Fprintf(&b, "DC %d ", *req.Difficulty)
	}
	if stat != "" {
		b.WriteString(string(stat))
		b.WriteString(" ")
	}
	b.WriteString("check!")
	return b.String()
}
