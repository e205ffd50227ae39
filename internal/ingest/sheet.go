package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"arcanist/internal/character"
	"arcanist/internal/parser"
	"arcanist/internal/store"
)

// sheetInput turns a parsed sheet into a character. Scores come from a
// "stats" string or from one key per ability; luck defaults to true.
func sheetInput(doc *parser.Document, defaultPlayer string) (store.CharacterInput, error) {
	player := strings.TrimSpace(toString(doc.Frontmatter["player"]))
	if player == "" {
		player = defaultPlayer
	}
	if player == "" {
		return store.CharacterInput{}, fmt.Errorf("no player set and no default player given")
	}

	scores, err := sheetScores(doc.Frontmatter)
	if err != nil {
		return store.CharacterInput{}, err
	}

	luck := true
	if value, ok := doc.Frontmatter["luck"]; ok {
		b, ok := value.(bool)
		if !ok {
			return store.CharacterInput{}, fmt.Errorf("luck must be true or false")
		}
		luck = b
	}

	return store.CharacterInput{
		UserID: player,
		Name:   store.NormalizeName(doc.Title),
		Scores: scores,
		Luck:   luck,
	}, nil
}

func sheetScores(frontmatter map[string]any) (character.Scores, error) {
	if value, ok := frontmatter["stats"]; ok {
		return character.ParseScores(toString(value))
	}

	values := make([]string, 0, len(character.Abilities))
	for _, a := range character.Abilities {
		value, ok := frontmatter[strings.ToLower(string(a))]
		if !ok {
			return character.Scores{}, fmt.Errorf("missing %s score", a)
		}
		n, ok := value.(int)
		if !ok {
			return character.Scores{}, fmt.Errorf("%s score must be a whole number", a)
		}
		values = append(values, strconv.Itoa(n))
	}
	return character.ParseScores(strings.Join(values, ":"))
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
