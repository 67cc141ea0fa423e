package prompts

import (
	"fmt"
	"strings"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
)

// RelationshipExtractionSystem is the system instruction for the second,
// narrower extraction call that mines relationship triples.
func RelationshipExtractionSystem() string {
	var b strings.Builder

	b.WriteString("You extract relationships between known entities from a news article. ")
	b.WriteString("Return ONLY a strict JSON array, no markdown fences, no commentary.\n\n")

	b.WriteString("Response schema:\n")
	b.WriteString(`[{"subject": "entity name", "predicate": "verb", "object": "entity name", "confidence": 0.0-1.0}]` + "\n\n")

	b.WriteString("Allowed predicates: ")
	b.WriteString(strings.Join(models.Predicates, ", "))
	b.WriteString("\n\n")

	b.WriteString("Subject and object MUST both come from the provided entity list. ")
	b.WriteString("Only assert relationships the article states or strongly implies. ")
	b.WriteString("Return [] when there are none.")

	return b.String()
}

// BuildRelationshipExtractionPrompt creates the user prompt for the
// relationship call, constrained to the resolved entity names.
func BuildRelationshipExtractionPrompt(entityNames []string, sanitizedText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Known entities: %s\n\n", strings.Join(entityNames, ", "))
	b.WriteString("Article text:\n\n")
	b.WriteString(sanitizedText)
	return b.String()
}

// EntitySummarySystem instructs the summary backfill call.
func EntitySummarySystem() string {
	return "You write neutral, factual 2-3 sentence summaries of organizations, " +
		"AI models, and people in the AI industry. Return plain text only."
}

// BuildEntitySummaryPrompt creates the prompt for the lazy summary backfill.
func BuildEntitySummaryPrompt(name, entityType string) string {
	return fmt.Sprintf("Write a 2-3 sentence summary of the %s %q.", entityType, name)
}
