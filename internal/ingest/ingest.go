// Package ingest imports markdown character sheets into the character store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"arcanist/internal/character"
	"arcanist/internal/parser"
)

type Result struct {
	Imported     []character.Snapshot
	Duplicates   int
	FilesSkipped int
	Errors       []error
}

type Options struct {
	// Player owns sheets that do not name one.
	Player  string
	Exclude []string
	DryRun  bool
}

// Run walks roots for .md files and creates a character for every sheet whose
// player does not already own a character of the same name. Per-file problems
// are collected in Result.Errors; only walk failures abort the run.
func Run(ctx context.Context, db Store, roots []string, options Options) (*Result, error) {
	files, err := walkMarkdownFiles(roots, options.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walking sheets: %w", err)
	}

	result := &Result{}
	owned := make(map[string]map[string]bool)

	for _, path := range files {
		doc, err := parser.ParseFile(path)
		if err != nil {
			if errors.Is(err, parser.ErrNoFrontmatter) || errors.Is(err, parser.ErrMissingType) {
				result.FilesSkipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", path, err))
			continue
		}
		if !doc.IsSheet() {
			result.FilesSkipped++
			continue
		}

		input, err := sheetInput(doc, options.Player)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("reading sheet %s: %w", path, err))
			continue
		}

		names, ok := owned[input.UserID]
		if !ok {
			names, err = ownedNames(ctx, db, input.UserID)
			if err != nil {
				return nil, err
			}
			owned[input.UserID] = names
		}
		key := strings.ToLower(input.Name)
		if names[key] {
			result.Duplicates++
			continue
		}
		names[key] = true

		if options.DryRun {
			result.Imported = append(result.Imported, character.Snapshot{UserID: input.UserID, Name: input.Name, Scores: input.Scores, Luck: input.Luck})
			continue
		}
		snap, err := db.CreateCharacter(ctx, input)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("creating %s: %w", path, err))
			continue
		}
		result.Imported = append(result.Imported, *snap)
	}

	return result, nil
}

func ownedNames(ctx context.Context, db Store, userID string) (map[string]bool, error) {
	chars, err := db.ListCharacters(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing characters for %s: %w", userID, err)
	}
	names := make(map[string]bool, len(chars))
	for _, c := range chars {
		names[strings.ToLower(c.Name)] = true
	}
	return names, nil
}

func walkMarkdownFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if isExcluded(path, excluded) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
