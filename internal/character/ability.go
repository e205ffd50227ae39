package character

import (
	"math"
	"strings"

	apperrors "arcanist/internal/errors"
)

// Ability names one of the six ability scores.
type Ability string

const (
	Strength     Ability = "Strength"
	Dexterity    Ability = "Dexterity"
	Constitution Ability = "Constitution"
	Intelligence Ability = "Intelligence"
	Wisdom       Ability = "Wisdom"
	Charisma     Ability = "Charisma"
)

// Abilities lists the abilities in sheet order.
var Abilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// ParseAbility matches name against the six abilities, ignoring case and
// surrounding whitespace so "strength" and " Strength" both resolve to
// Strength. Callers that echo the stat always use the returned canonical name.
func ParseAbility(name string) (Ability, error) {
	for _, ability := range Abilities {
		if strings.EqualFold(string(ability), strings.TrimSpace(name)) {
			return ability, nil
		}
	}
	return "", apperrors.WithMetadata(apperrors.CodeValidation, "unknown ability "+name,
		map[string]string{"stat": name})
}

// Modifier converts a raw ability score into its modifier, floor((score-10)/2).
func Modifier(score int) int {
	return int(math.Floor(float64(score-10) / 2))
}
