package check

import (
	"arcanist/internal/action"
	"arcanist/internal/character"
)

// DefaultRepetitions is used when Request.Repetitions is zero.
const DefaultRepetitions = 1

// FallbackActorName is used when neither a character nor an actor name is known.
const FallbackActorName = "Someone"

// Request describes one check. The zero value is a plain 1d20 + 0 check.
//
// Defaults:
//   - Modifier nil (or 0) means 0, or the Stat-derived modifier when both
//     Stat and Character are present.
//   - Difficulty nil means no DC: no success markers and no summary line.
//   - Stat "" means no ability; any other value must name one of the six.
//   - Repetitions 0 means DefaultRepetitions; negative values are rejected.
type Request struct {
	Modifier     *int
	Difficulty   *int
	Stat         string
	Advantage    bool
	Disadvantage bool
	Repetitions  int
	ActorName    string
	Character    *character.Snapshot
}

// Outcome is the rendered result of a check.
type Outcome struct {
	Lines     []string        `json:"lines"`
	Successes int             `json:"successes"`
	Message   string          `json:"message"`
	Actions   []action.Action `json:"actions"`
}

// Actor identifies who is rolling when a reroll is resolved.
type Actor struct {
	ID   string
	Name string
}

func (r Request) repetitions() int {
	if r.Repetitions == 0 {
		return DefaultRepetitions
	}
	return r.Repetitions
}

// rerollFields selects what a reroll token must carry to replay r.
func (r Request) rerollFields() action.Fields {
	reps := r.repetitions()
	f := action.Fields{
		Difficulty:  r.Difficulty,
		Modifier:    r.Modifier,
		Repetitions: &reps,
	}
	if r.Advantage {
		f.Advantage = &r.Advantage
	}
	if r.Disadvantage {
		f.Disadvantage = &r.Disadvantage
	}
	if r.Stat != "" {
		stat := r.Stat
		f.Stat = &stat
	}
	return f
}

// requestFromFields rebuilds a request from decoded token fields.
func requestFromFields(f action.Fields) Request {
	var req Request
	req.Modifier = f.Modifier
	req.Difficulty = f.Difficulty
	if f.Advantage != nil {
		req.Advantage = *f.Advantage
	}
	if f.Disadvantage != nil {
		req.Disadvantage = *f.Disadvantage
	}
	if f.Repetitions != nil {
		req.Repetitions = *f.Repetitions
	}
	if f.Stat != nil && !noCharacter(f) {
		req.Stat = *f.Stat
	}
	return req
}

func noCharacter(f action.Fields) bool {
	return f.NoCharacter != nil && *f.NoCharacter
}
