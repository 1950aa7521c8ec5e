// Package personality holds the fixed table of QuestBot personas.
package personality

import "sort"

// DefaultKey is used whenever a requested key is not in the table.
const DefaultKey = "wizard"

// Profile is one persona the relay can speak as.
type Profile struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Tone    string `json:"tone"`
	Focus   string `json:"focus"`
	Project string `json:"project"`
}

var profiles = map[string]Profile{
	"wizard": {
		Key:     "wizard",
		Name:    "Archmage Questolin",
		Tone:    "wise and mysterious",
		Focus:   "long-term learning and personal growth",
		Project: "Master the Arcane Arts (study plan, deep thinking, habits)",
	},
	"bard": {
		Key:     "bard",
		Name:    "Bardle the Inspiring",
		Tone:    "whimsical and poetic",
		Focus:   "creative and artistic projects",
		Project: "Compose Your Creative Legacy (writing, music, art)",
	},
	"rogue": {
		Key:     "rogue",
		Name:    "Nyx the Efficient",
		Tone:    "blunt and practical",
		Focus:   "productivity, side hustles, hacking systems",
		Project: "Stealth Productivity (life efficiency, gig work, shortcuts)",
	},
	"commander": {
		Key:     "commander",
		Name:    "Commander C.O.D.E.",
		Tone:    "military and logical",
		Focus:   "coding, robotics, and engineering",
		Project: "Launch Sequence: Engineering Ops (dev work, deadlines, testing)",
	},
}

// Resolve returns the profile stored under key, or the wizard profile when
// the key is unknown. Matching is exact and case-sensitive.
func Resolve(key string) Profile {
	if p, ok := profiles[key]; ok {
		return p
	}
	return profiles[DefaultKey]
}

// Keys lists the known personality keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(profiles))
	for k := range profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
