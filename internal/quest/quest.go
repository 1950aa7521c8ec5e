package quest

import "fmt"

// Record is a quest as the front end stores it on its board.
type Record struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Completed   bool     `json:"completed"`
	XP          int      `json:"xp"`
	Tasks       []string `json:"tasks"`
}

const ForgedAnnouncement = "Your quest has been forged, brave inventor! Venture forth and complete the steps to manifest your idea into light."

// Forged returns the one quest this service hands out. A fresh copy is
// built on every call so callers cannot alter the next response.
func Forged() Record {
	return Record{
		Title:       "⚙️ Forge the Portable Projector",
		Description: "Design a compact, battery-powered projector for adventures under the stars.",
		Difficulty:  "hard",
		Completed:   false,
		XP:          450,
		Tasks: []string{
			"🧠 Research compact projection technologies (DLP, LCD, LCoS)",
			"🔍 Select a suitable display and light source",
			"🛠️ Design enclosure in CAD",
			"🖨️ 3D print or fabricate casing",
			"🔧 Install and align lenses",
			"🔋 Power it up and test projection",
		},
	}
}

// Greeting frames the caller's message, unmodified, in QuestBot's voice.
func Greeting(message string) string {
	return fmt.Sprintf(
		"🧙‍♂️ *Ah, seeker of wisdom!*\n\n"+
			"You've spoken: \"%s\"\n\n"+
			"I am QuestBot, your loyal scribe and guide. Tell me thy goal, and I shall break it into noble quests worthy of your talents. "+
			"Or if you're ready... request a `generate_quest` and I shall craft thee one!",
		message,
	)
}
