package ai

import (
	"strings"

	"questbot-backend/internal/personality"
)

// BuildSystemMessage returns the single system message that opens every
// relayed conversation. With ready set the model is asked for a quest JSON
// object, otherwise for one clarifying question.
func BuildSystemMessage(p personality.Profile, ready bool) Message {
	var b strings.Builder

	b.WriteString("You are ")
	b.WriteString(p.Name)
	b.WriteString(", a ")
	b.WriteString(p.Tone)
	b.WriteString(" assistant.\n")

	if ready {
		b.WriteString("Your mission: help the user achieve the project \"")
		b.WriteString(p.Project)
		b.WriteString("\".\n")
		b.WriteString(questInstruction)
		b.WriteString("\n\n")
		b.WriteString(questJSONExample)
		b.WriteString("\n")
	} else {
		b.WriteString("Help the user achieve the project \"")
		b.WriteString(p.Project)
		b.WriteString("\".\n")
		b.WriteString(clarifyInstruction)
		b.WriteString("\n")
	}

	return Message{Role: RoleSystem, Content: b.String()}
}

// WithSystemMessage prepends system to history without touching the
// caller's slice.
func WithSystemMessage(system Message, history []Message) []Message {
	out := make([]Message, 0, len(history)+1)
	out = append(out, system)
	return append(out, history...)
}
