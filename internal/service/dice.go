package service

import (
	"fmt"

	"arcanist/internal/dice"
)

// DieInput mirrors the roll command's arguments. Count > 0 sums that many dice.
type DieInput struct {
	Sides        int
	Advantage    bool
	Disadvantage bool
	Count        int
}

// DieOutcome is a rendered die roll.
type DieOutcome struct {
	Result  dice.RollResult `json:"result"`
	Message string          `json:"message"`
}

// RollDie rolls a single die, or Count dice summed.
func (s *Service) RollDie(in DieInput) (DieOutcome, error) {
	if err := s.boundRepetitions(in.Count); err != nil {
		return DieOutcome{}, err
	}
	res, err := s.roller.Roll(dice.RollRequest{
		Sides:        in.Sides,
		Advantage:    in.Advantage,
		Disadvantage: in.Disadvantage,
		Aggregate:    in.Count,
	})
	if err != nil {
		return DieOutcome{}, err
	}
	count := 1
	if in.Count > 0 {
		count = in.Count
	}
	return DieOutcome{
		Result:  res,
		Message: fmt.Sprintf("%dd%d (%s) = %d", count, in.Sides, res.Display, res.Kept),
	}, nil
}
