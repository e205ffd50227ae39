package character

import (
	"fmt"
	"strings"

	"arcanist/internal/dice"
)

// StatRoll is one ability rolled for a new character.
type StatRoll struct {
	Ability Ability         `json:"ability"`
	Result  dice.RollResult `json:"result"`
}

// RollScores rolls 3d6 for each ability in sheet order.
func RollScores(roller *dice.Roller) (Scores, []StatRoll, error) {
	rolls := make([]StatRoll, 0, len(Abilities))
	values := make([]int, 0, len(Abilities))
	for _, a := range Abilities {
		result, err := roller.Roll(dice.RollRequest{Sides: 6, Aggregate: 3})
		if err != nil {
			return Scores{}, nil, fmt.Errorf("rolling %s: %w", a, err)
		}
		rolls = append(rolls, StatRoll{Ability: a, Result: result})
		values = append(values, result.Kept)
	}
	return Scores{
		Strength:     values[0],
		Dexterity:    values[1],
		Constitution: values[2],
		Intelligence: values[3],
		Wisdom:       values[4],
		Charisma:     values[5],
	}, rolls, nil
}

// FormatStatRolls renders one line per ability, e.g. "Strength: 3d6 (4 + 5 + 6) = 15".
func FormatStatRolls(rolls []StatRoll) string {
	lines := make([]string, 0, len(rolls))
	for _, r := range rolls {
		lines = append(lines, fmt.Sprintf("%s: 3d6 (%s) = %d", r.Ability, r.Result.Display, r.Result.Kept))
	}
	return strings.Join(lines, "\n")
}
