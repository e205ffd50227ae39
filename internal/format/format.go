// Package format renders emphasis for check output on different surfaces.
package format

import "fmt"

// Formatter applies pure text transforms to roll output.
type Formatter interface {
	Bold(text string) string
	Strike(text string) string
}

type markdown struct{}

// Markdown renders chat-platform markdown (**bold**, ~~strike~~).
var Markdown Formatter = markdown{}

func (markdown) Bold(text string) string   { return "**" + text + "**" }
func (markdown) Strike(text string) string { return "~~" + text + "~~" }

type compact struct{}

// Compact renders single-character markers (*bold*, ~strike~).
var Compact Formatter = compact{}

func (compact) Bold(text string) string   { return "*" + text + "*" }
func (compact) Strike(text string) string { return "~" + text + "~" }

type plain struct{}

// Plain leaves text untouched.
var Plain Formatter = plain{}

func (plain) Bold(text string) string   { return text }
func (plain) Strike(text string) string { return text }

// ByName returns the formatter for a configured style.
func ByName(name string) (Formatter, error) {
	switch name {
	case "", "markdown":
		return Markdown, nil
	case "compact":
		return Compact, nil
	case "plain":
		return Plain, nil
	default:
		return nil, fmt.Errorf("unknown format style %q", name)
	}
}
