package tools

import "strings"

// Documentation returns the agent-facing description of the available tools,
// suitable for inclusion in a model prompt. Not every documented call will
// succeed; the pipeline enforces the boundary regardless of what the
// documentation promises.
func (r *Registry) Documentation() string {
	var b strings.Builder
	b.WriteString(`## Available Tools

You may attempt to use tools by including a tool_request in your JSON response.
Not all requests will succeed; the game engine enforces access boundaries.

`)
	for i, name := range r.Names() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.tools[name].doc)
	}
	b.WriteString(`

## Response Format

You may include multiple tool requests. Example:

{
  "public_message": "I think P5 is suspicious.",
  "tool_requests": [
    {"tool": "query_game_db", "args": {"query": "SELECT * FROM players"}},
    {"tool": "send_message", "args": {"to": "P7", "channel": "private", "text": "Let's vote P5"}}
  ],
  "vote": "P5",
  "reason": "P5 has been quiet and deflecting"
}
`)
	return b.String()
}
