// Package dice rolls individual dice under advantage, disadvantage and
// aggregate rules using an injected randomness source.
package dice

import (
	"strconv"
	"strings"

	apperrors "arcanist/internal/errors"
	"arcanist/internal/format"
)

// RollRequest describes one logical die.
//
// Aggregate, when positive, rolls that many dice and sums them; it overrides
// Advantage and Disadvantage. Setting both Advantage and Disadvantage cancels
// them out and a single die is rolled.
type RollRequest struct {
	Sides        int
	Advantage    bool
	Disadvantage bool
	Aggregate    int
}

// RollResult captures the kept value and every raw face drawn.
type RollResult struct {
	Kept    int    `json:"kept"`
	Raw     []int  `json:"raw"`
	Display string `json:"display"`
}

// Roller turns uniform draws into die faces.
type Roller struct {
	src Source
	fmt format.Formatter
}

// NewRoller builds a roller. A nil formatter falls back to format.Plain.
func NewRoller(src Source, f format.Formatter) (*Roller, error) {
	if src == nil {
		return nil, apperrors.New(apperrors.CodeConfiguration, "dice roller requires a randomness source")
	}
	if f == nil {
		f = format.Plain
	}
	return &Roller{src: src, fmt: f}, nil
}

// Roll rolls one logical die.
//
// # Modes
//
//   - Aggregate > 0: Aggregate faces are drawn, Kept is their sum and Display
//     joins them with " + ".
//   - Advantage XOR Disadvantage: two faces are drawn, Kept is the max
//     (advantage) or min (disadvantage) and the other face is struck through.
//     On a tie the first face is kept.
//   - Otherwise: one face is drawn and shown as is.
//
// Each face is floor(draw*sides)+1, clamped to [1, sides].
func (r *Roller) Roll(req RollRequest) (RollResult, error) {
	if req.Sides < 1 {
		return RollResult{}, apperrors.WithMetadata(apperrors.CodeValidation, "die must have at least one side",
			map[string]string{"sides": strconv.Itoa(req.Sides)})
	}
	if req.Aggregate < 0 {
		return RollResult{}, apperrors.WithMetadata(apperrors.CodeValidation, "aggregate count must be positive",
			map[string]string{"aggregate": strconv.Itoa(req.Aggregate)})
	}

	if req.Aggregate > 0 {
		return r.rollAggregate(req.Sides, req.Aggregate), nil
	}
	if req.Advantage != req.Disadvantage {
		return r.rollKeep(req.Sides, req.Advantage), nil
	}

	face := r.face(req.Sides)
	return RollResult{
		Kept:    face,
		Raw:     []int{face},
		Display: strconv.Itoa(face),
	}, nil
}

func (r *Roller) rollAggregate(sides, count int) RollResult {
	raw := make([]int, count)
	parts := make([]string, count)
	total := 0
	for i := range raw {
		raw[i] = r.face(sides)
		parts[i] = strconv.Itoa(raw[i])
		total += raw[i]
	}
	return RollResult{
		Kept:    total,
		Raw:     raw,
		Display: strings.Join(parts, " + "),
	}
}

func (r *Roller) rollKeep(sides int, best bool) RollResult {
	raw := []int{r.face(sides), r.face(sides)}

	keep := 0
	if (best && raw[1] > raw[0]) || (!best && raw[1] < raw[0]) {
		keep = 1
	}

	parts := make([]string, len(raw))
	for i, value := range raw {
		text := strconv.Itoa(value)
		if i != keep {
			text = r.fmt.Strike(text)
		}
		parts[i] = text
	}

	return RollResult{
		Kept:    raw[keep],
		Raw:     raw,
		Display: strings.Join(parts, ", "),
	}
}

func (r *Roller) face(sides int) int {
	value := int(r.src.Float64()*float64(sides)) + 1
	if value < 1 {
		return 1
	}
	if value > sides {
		return sides
	}
	return value
}
