package ai

// Shape the model is asked to follow once the user is ready for a quest.
const questJSONExample = `{
"title": "Launch the Prototype",
"description": "...",
"difficulty": "hard",
"tasks": ["...", "..."]
}`

const questInstruction = "Based on the previous conversation, respond ONLY with a valid JSON object like:"

const clarifyInstruction = "Ask **only one short and specific question at a time** to better understand their goal.\n" +
	"Do NOT return any JSON. Just one clear question."
