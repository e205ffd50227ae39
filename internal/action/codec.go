// Package action encodes the replayable subset of a check request into a
// compact token and parses it back.
//
// The wire format is ASCII `<key>:<value>` entries joined by `;` with keys in
// alphabetical order, for example `a:true;d:12;m:3;n:1;s:Strength`. Tokens are
// short-lived and carry no version marker.
package action

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "arcanist/internal/errors"
)

// RerollPrefix is prepended to a token to form a reroll action ID.
const RerollPrefix = "check-reroll-"

// Action is a follow-up the caller may render as a button or menu entry.
type Action struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Fields is the replayable part of a check request. Nil fields are omitted
// from the token and fall back to request defaults when decoded.
type Fields struct {
	Advantage    *bool
	Difficulty   *int
	NoCharacter  *bool
	Modifier     *int
	Repetitions  *int
	Stat         *string
	Disadvantage *bool
}

type kind int

const (
	kindBool kind = iota
	kindInt
	kindString
)

type field struct {
	key  string
	kind kind
	get  func(*Fields) any
	set  func(*Fields, any)
}

// schema lists every encodable field in key order.
var schema = []field{
	{"a", kindBool, func(f *Fields) any { return f.Advantage }, func(f *Fields, v any) { f.Advantage = v.(*bool) }},
	{"d", kindInt, func(f *Fields) any { return f.Difficulty }, func(f *Fields, v any) { f.Difficulty = v.(*int) }},
	{"e", kindBool, func(f *Fields) any { return f.NoCharacter }, func(f *Fields, v any) { f.NoCharacter = v.(*bool) }},
	{"m", kindInt, func(f *Fields) any { return f.Modifier }, func(f *Fields, v any) { f.Modifier = v.(*int) }},
	{"n", kindInt, func(f *Fields) any { return f.Repetitions }, func(f *Fields, v any) { f.Repetitions = v.(*int) }},
	{"s", kindString, func(f *Fields) any { return f.Stat }, func(f *Fields, v any) { f.Stat = v.(*string) }},
	{"x", kindBool, func(f *Fields) any { return f.Disadvantage }, func(f *Fields, v any) { f.Disadvantage = v.(*bool) }},
}

var schemaIndex = func() map[string]field {
	index := make(map[string]field, len(schema))
	for _, f := range schema {
		index[f.key] = f
	}
	return index
}()

// Encode renders the non-nil fields of f.
func Encode(f Fields) string {
	parts := make([]string, 0, len(schema))
	for _, def := range schema {
		switch v := def.get(&f).(type) {
		case *bool:
			if v != nil {
				parts = append(parts, def.key+":"+strconv.FormatBool(*v))
			}
		case *int:
			if v != nil {
				parts = append(parts, def.key+":"+strconv.Itoa(*v))
			}
		case *string:
			if v != nil {
				parts = append(parts, def.key+":"+*v)
			}
		}
	}
	return strings.Join(parts, ";")
}

// Decode parses a token produced by Encode. Unknown keys, repeated keys and
// malformed values fail with a TOKEN_DECODE error.
func Decode(token string) (Fields, error) {
	var f Fields
	if token == "" {
		return f, nil
	}

	seen := make(map[string]struct{}, len(schema))
	for _, entry := range strings.Split(token, ";") {
		key, raw, ok := strings.Cut(entry, ":")
		if !ok {
			return Fields{}, decodeError(token, fmt.Errorf("entry %q has no value", entry))
		}
		def, known := schemaIndex[key]
		if !known {
			return Fields{}, decodeError(token, fmt.Errorf("unknown key %q", key))
		}
		if _, dup := seen[key]; dup {
			return Fields{}, decodeError(token, fmt.Errorf("duplicate key %q", key))
		}
		seen[key] = struct{}{}

		value, err := parseValue(def.kind, raw)
		if err != nil {
			return Fields{}, decodeError(token, fmt.Errorf("key %q: %w", key, err))
		}
		def.set(&f, value)
	}
	return f, nil
}

// RerollID builds the action ID for a reroll of f.
func RerollID(f Fields) string {
	return RerollPrefix + Encode(f)
}

// ParseRerollID strips RerollPrefix from an action ID and returns the token.
func ParseRerollID(id string) (string, error) {
	token, ok := strings.CutPrefix(id, RerollPrefix)
	if !ok {
		return "", decodeError(id, fmt.Errorf("missing %q prefix", RerollPrefix))
	}
	return token, nil
}

func parseValue(k kind, raw string) (any, error) {
	switch k {
	case kindBool:
		switch raw {
		case "true":
			v := true
			return &v, nil
		case "false":
			v := false
			return &v, nil
		}
		return nil, fmt.Errorf("%q is not a boolean", raw)
	case kindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		return &v, nil
	default:
		v := raw
		return &v, nil
	}
}

func decodeError(token string, cause error) error {
	return &apperrors.Error{
		Code:     apperrors.CodeTokenDecode,
		Message:  "decoding action token",
		Metadata: map[string]string{"token": token},
		Cause:    cause,
	}
}
