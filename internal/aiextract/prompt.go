package aiextract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/hyperifyio/presskeywords/internal/keywords"
)

const confidenceField = "confidenceScore"

// responseSchema describes the expected JSON object: one string array per
// category plus a numeric confidence.
func responseSchema(s keywords.Schema) jsonschema.Definition {
	props := make(map[string]jsonschema.Definition, len(s.Categories)+1)
	required := make([]string, 0, len(s.Categories)+1)
	for _, c := range s.Categories {
		props[c.Key] = jsonschema.Definition{
			Type:        jsonschema.Array,
			Description: c.Description,
			Items:       &jsonschema.Definition{Type: jsonschema.String},
		}
		required = append(required, c.Key)
	}
	props[confidenceField] = jsonschema.Definition{Type: jsonschema.Number, Description: "0-100"}
	required = append(required, confidenceField)
	return jsonschema.Definition{Type: jsonschema.Object, Properties: props, Required: required}
}

func buildSystemMessage(s keywords.Schema) string {
	var sb strings.Builder
	sb.WriteString("You extract searchable keyword phrases from press releases. ")
	sb.WriteString("Every phrase must appear verbatim in the provided text; never paraphrase or invent.\n\n")
	sb.WriteString("Categories:\n")
	for i, c := range s.Categories {
		fmt.Fprintf(&sb, "%d. %s (%s): %s", i+1, c.Key, c.Label, c.Description)
		if c.Brandless {
			sb.WriteString(". Do not include company, brand or news wire names")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nRules:\n- Each phrase is %d to %d words long.\n", s.MinWords, s.MaxWords)
	fmt.Fprintf(&sb, "- Return up to %d phrases per category, as many as the text supports; use an empty array when none apply.\n", s.MaxPerCategory)
	sb.WriteString("- Include every category key, even when empty.\n")
	fmt.Fprintf(&sb, "- Set %s to your confidence from 0 to 100.\n\n", confidenceField)
	sb.WriteString("Respond with a single JSON object matching this JSON Schema and nothing else:\n")
	b, _ := json.Marshal(responseSchema(s))
	sb.Write(b)
	return sb.String()
}

// UserPrefix precedes the source text in the user message.
const UserPrefix = "Press release text:\n\n"

func buildUserMessage(text string) string {
	return UserPrefix + text
}

// stripFences removes a surrounding Markdown code fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
