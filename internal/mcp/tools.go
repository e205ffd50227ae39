package mcp

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"arcanist/internal/action"
	"arcanist/internal/character"
	"arcanist/internal/check"
	apperrors "arcanist/internal/errors"
	"arcanist/internal/service"
)

type RollCheckInput struct {
	UserID       string `json:"user_id,omitempty" jsonschema:"id of the player rolling; selects their active character"`
	UserName     string `json:"user_name,omitempty" jsonschema:"display name used when the player has no character"`
	Modifier     *int   `json:"modifier,omitempty" jsonschema:"flat modifier added to each d20"`
	Difficulty   *int   `json:"dc,omitempty" jsonschema:"difficulty class; enables success markers"`
	Stat         string `json:"stat,omitempty" jsonschema:"ability name, e.g. Strength"`
	Advantage    bool   `json:"advantage,omitempty" jsonschema:"roll two d20 and keep the higher"`
	Disadvantage bool   `json:"disadvantage,omitempty" jsonschema:"roll two d20 and keep the lower"`
	Repetitions  int    `json:"repetitions,omitempty" jsonschema:"number of attempts, default 1"`
}

type RerollCheckInput struct {
	UserID   string `json:"user_id,omitempty" jsonschema:"id of the player rolling; selects their active character"`
	UserName string `json:"user_name,omitempty" jsonschema:"display name used when the player has no character"`
	ActionID string `json:"action_id" jsonschema:"id of a Reroll action returned by roll_check"`
}

type RollDieInput struct {
	Sides        int  `json:"sides" jsonschema:"number of faces"`
	Advantage    bool `json:"advantage,omitempty" jsonschema:"roll twice and keep the higher"`
	Disadvantage bool `json:"disadvantage,omitempty" jsonschema:"roll twice and keep the lower"`
	Count        int  `json:"count,omitempty" jsonschema:"roll this many dice and sum them"`
}

type RollStatsInput struct {
	UserID   string `json:"user_id,omitempty" jsonschema:"id of the player rolling; selects their active character"`
	UserName string `json:"user_name,omitempty" jsonschema:"display name used when the player has no character"`
	Name     string `json:"name,omitempty" jsonschema:"character name when saving"`
	Save     bool   `json:"save,omitempty" jsonschema:"store the rolled scores as the player's new character"`
}

type CreateCharacterInput struct {
	UserID   string `json:"user_id,omitempty" jsonschema:"id of the player rolling; selects their active character"`
	UserName string `json:"user_name,omitempty" jsonschema:"display name used when the player has no character"`
	Name     string `json:"name,omitempty" jsonschema:"character name"`
	Stats    string `json:"stats" jsonschema:"six scores in sheet order, e.g. 14:12:10:8:15:13"`
}

type GetCharacterInput struct {
	UserID   string `json:"user_id,omitempty" jsonschema:"id of the player rolling; selects their active character"`
	UserName string `json:"user_name,omitempty" jsonschema:"display name used when the player has no character"`
}

type ActionOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CheckOutput struct {
	Message   string         `json:"message"`
	Lines     []string       `json:"lines"`
	Successes int            `json:"successes"`
	Actions   []ActionOutput `json:"actions"`
}

type DieOutput struct {
	Message string `json:"message"`
	Kept    int    `json:"kept"`
	Raw     []int  `json:"raw"`
}

type StatOutput struct {
	Ability string `json:"ability"`
	Display string `json:"display"`
	Score   int    `json:"score"`
}

type StatsOutput struct {
	Message   string           `json:"message"`
	Stats     []StatOutput     `json:"stats"`
	Character *CharacterOutput `json:"character,omitempty"`
}

type CharacterOutput struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Stats     string         `json:"stats"`
	Modifiers map[string]int `json:"modifiers"`
	Luck      bool           `json:"luck"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "roll_check",
		Description: "Roll a d20 check with optional modifier, DC, ability, advantage and repetitions",
	}, s.handleRollCheck)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "reroll_check",
		Description: "Activate a Reroll action from an earlier check, spending the character's luck",
	}, s.handleRerollCheck)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "roll_die",
		Description: "Roll one die of any size, or several summed",
	}, s.handleRollDie)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "roll_stats",
		Description: "Roll 3d6 for each ability, optionally saving a new character",
	}, s.handleRollStats)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "create_character",
		Description: "Create a character from six ability scores and make it active",
	}, s.handleCreateCharacter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_character",
		Description: "Return the player's active character",
	}, s.handleGetCharacter)
}

func (s *Server) handleRollCheck(ctx context.Context, req *sdk.CallToolRequest, input RollCheckInput) (*sdk.CallToolResult, CheckOutput, error) {
	outcome, err := s.svc.Check(ctx, user(input.UserID, input.UserName), service.CheckInput{
		Modifier:     input.Modifier,
		Difficulty:   input.Difficulty,
		Stat:         input.Stat,
		Advantage:    input.Advantage,
		Disadvantage: input.Disadvantage,
		Repetitions:  input.Repetitions,
	})
	if err != nil {
		return nil, CheckOutput{}, toolError(err)
	}
	return nil, checkOutputFromOutcome(outcome), nil
}

func (s *Server) handleRerollCheck(ctx context.Context, req *sdk.CallToolRequest, input RerollCheckInput) (*sdk.CallToolResult, CheckOutput, error) {
	if input.ActionID == "" {
		return nil, CheckOutput{}, fmt.Errorf("action_id is required")
	}
	outcome, err := s.svc.Reroll(ctx, user(input.UserID, input.UserName), input.ActionID)
	if err != nil {
		return nil, CheckOutput{}, toolError(err)
	}
	return nil, checkOutputFromOutcome(outcome), nil
}

func (s *Server) handleRollDie(ctx context.Context, req *sdk.CallToolRequest, input RollDieInput) (*sdk.CallToolResult, DieOutput, error) {
	out, err := s.svc.RollDie(service.DieInput{
		Sides:        input.Sides,
		Advantage:    input.Advantage,
		Disadvantage: input.Disadvantage,
		Count:        input.Count,
	})
	if err != nil {
		return nil, DieOutput{}, toolError(err)
	}
	return nil, DieOutput{
		Message: out.Message,
		Kept:    out.Result.Kept,
		Raw:     append([]int{}, out.Result.Raw...),
	}, nil
}

func (s *Server) handleRollStats(ctx context.Context, req *sdk.CallToolRequest, input RollStatsInput) (*sdk.CallToolResult, StatsOutput, error) {
	out, err := s.svc.RollStats(ctx, user(input.UserID, input.UserName), input.Name, input.Save)
	if err != nil {
		return nil, StatsOutput{}, toolError(err)
	}

	stats := make([]StatOutput, 0, len(out.Rolls))
	for _, roll := range out.Rolls {
		stats = append(stats, StatOutput{
			Ability: string(roll.Ability),
			Display: roll.Result.Display,
			Score:   roll.Result.Kept,
		})
	}
	output := StatsOutput{Message: out.Message, Stats: stats}
	if out.Character != nil {
		c := characterOutputFromSnapshot(out.Character)
		output.Character = &c
	}
	return nil, output, nil
}

func (s *Server) handleCreateCharacter(ctx context.Context, req *sdk.CallToolRequest, input CreateCharacterInput) (*sdk.CallToolResult, CharacterOutput, error) {
	if input.Stats == "" {
		return nil, CharacterOutput{}, fmt.Errorf("stats is required")
	}
	scores, err := character.ParseScores(input.Stats)
	if err != nil {
		return nil, CharacterOutput{}, toolError(err)
	}
	snap, err := s.svc.CreateCharacter(ctx, user(input.UserID, input.UserName), input.Name, scores)
	if err != nil {
		return nil, CharacterOutput{}, toolError(err)
	}
	return nil, characterOutputFromSnapshot(snap), nil
}

func (s *Server) handleGetCharacter(ctx context.Context, req *sdk.CallToolRequest, input GetCharacterInput) (*sdk.CallToolResult, CharacterOutput, error) {
	snap, err := s.svc.Character(ctx, user(input.UserID, input.UserName))
	if err != nil {
		return nil, CharacterOutput{}, toolError(err)
	}
	return nil, characterOutputFromSnapshot(snap), nil
}

func user(id, name string) service.User {
	return service.User{ID: id, Name: name}
}

// toolError hides internal detail of stale reroll tokens from the caller.
func toolError(err error) error {
	if apperrors.CodeOf(err) == apperrors.CodeTokenDecode {
		return errors.New(apperrors.CodeTokenDecode.UserMessage())
	}
	return err
}

func checkOutputFromOutcome(outcome check.Outcome) CheckOutput {
	return CheckOutput{
		Message:   outcome.Message,
		Lines:     append([]string{}, outcome.Lines...),
		Successes: outcome.Successes,
		Actions:   actionOutputs(outcome.Actions),
	}
}

func actionOutputs(actions []action.Action) []ActionOutput {
	out := make([]ActionOutput, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionOutput{ID: a.ID, Title: a.Title})
	}
	return out
}

func characterOutputFromSnapshot(snap *character.Snapshot) CharacterOutput {
	if snap == nil {
		return CharacterOutput{}
	}
	modifiers := make(map[string]int, len(character.Abilities))
	for _, a := range character.Abilities {
		modifiers[string(a)] = snap.Modifier(a)
	}
	return CharacterOutput{
		ID:        snap.ID,
		Name:      snap.DisplayName(),
		Stats:     snap.Scores.String(),
		Modifiers: modifiers,
		Luck:      snap.Luck,
	}
}
