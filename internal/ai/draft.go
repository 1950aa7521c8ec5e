package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// QuestDraft is the object the model is asked to produce when the user is
// ready for a quest. The relay never rewrites the reply with it.
type QuestDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Tasks       []string `json:"tasks"`
}

var questDraftSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"title", "description", "difficulty", "tasks"},
	Properties: map[string]*jsonschema.Schema{
		"title":       {Type: "string"},
		"description": {Type: "string"},
		"difficulty":  {Type: "string"},
		"tasks": {
			Type:  "array",
			Items: &jsonschema.Schema{Type: "string"},
		},
	},
}

var resolvedQuestDraft = mustResolve(questDraftSchema)

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	r, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("resolve quest draft schema: %v", err))
	}
	return r
}

// ParseQuestDraft pulls the outermost JSON object out of a model reply and
// checks it against the quest draft schema.
func ParseQuestDraft(reply string) (QuestDraft, error) {
	clean := strings.TrimSpace(reply)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end <= start {
		return QuestDraft{}, errors.New("no JSON object in reply")
	}
	clean = clean[start : end+1]

	var instance any
	if err := json.Unmarshal([]byte(clean), &instance); err != nil {
		return QuestDraft{}, fmt.Errorf("failed to parse quest draft: %w", err)
	}
	if err := resolvedQuestDraft.Validate(instance); err != nil {
		return QuestDraft{}, fmt.Errorf("quest draft does not match schema: %w", err)
	}

	var draft QuestDraft
	if err := json.Unmarshal([]byte(clean), &draft); err != nil {
		return QuestDraft{}, fmt.Errorf("failed to decode quest draft: %w", err)
	}
	return draft, nil
}
