// Package validate runs consistency checks over stored characters.
package validate

import (
	"context"
	"fmt"
	"strings"

	"arcanist/internal/character"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeMissingDefault   = "missing_default"
	codeMultipleDefaults = "multiple_defaults"
	codeScoreOutOfRange  = "score_out_of_range"
	codeUnnamed          = "unnamed_character"
	codeDuplicateName    = "duplicate_name"
)

// Scores outside 3d6 range are allowed but flagged.
const (
	minScore = 3
	maxScore = 18
)

type Issue struct {
	Severity  Severity
	Code      string
	Message   string
	UserID    string
	Character string
}

type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue is an error.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func Run(ctx context.Context, src CharacterSource) (*Report, error) {
	if src == nil {
		return nil, fmt.Errorf("character source is required")
	}

	chars, err := src.AllCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	issues := make([]Issue, 0)
	byUser := make(map[string][]character.Snapshot)
	var users []string
	for _, c := range chars {
		if _, seen := byUser[c.UserID]; !seen {
			users = append(users, c.UserID)
		}
		byUser[c.UserID] = append(byUser[c.UserID], c)
		issues = append(issues, validateScores(c)...)
		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, issueFor(c, SeverityWarn, codeUnnamed, "character has no name"))
		}
	}

	for _, userID := range users {
		issues = append(issues, validateDefaults(userID, byUser[userID])...)
		issues = append(issues, validateNames(byUser[userID])...)
	}

	return &Report{Issues: issues}, nil
}

func validateScores(c character.Snapshot) []Issue {
	var issues []Issue
	for _, a := range character.Abilities {
		score := c.Scores.Score(a)
		if score < minScore || score > maxScore {
			issues = append(issues, issueFor(c, SeverityWarn, codeScoreOutOfRange,
				fmt.Sprintf("%s %d is outside %d-%d", a, score, minScore, maxScore)))
		}
	}
	return issues
}

func validateDefaults(userID string, chars []character.Snapshot) []Issue {
	defaults := 0
	for _, c := range chars {
		if c.Default {
			defaults++
		}
	}
	switch {
	case defaults == 0:
		return []Issue{{
			Severity: SeverityError,
			Code:     codeMissingDefault,
			Message:  fmt.Sprintf("%d characters but none is the default", len(chars)),
			UserID:   userID,
		}}
	case defaults > 1:
		return []Issue{{
			Severity: SeverityError,
			Code:     codeMultipleDefaults,
			Message:  fmt.Sprintf("%d default characters", defaults),
			UserID:   userID,
		}}
	}
	return nil
}

func validateNames(chars []character.Snapshot) []Issue {
	var issues []Issue
	seen := make(map[string]bool)
	for _, c := range chars {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" {
			continue
		}
		if seen[key] {
			issues = append(issues, issueFor(c, SeverityWarn, codeDuplicateName, "another character has the same name"))
			continue
		}
		seen[key] = true
	}
	return issues
}

func issueFor(c character.Snapshot, severity Severity, code, message string) Issue {
	return Issue{
		Severity:  severity,
		Code:      code,
		Message:   message,
		UserID:    c.UserID,
		Character: c.DisplayName() + " (" + c.ID + ")",
	}
}
