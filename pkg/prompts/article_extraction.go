// Package prompts builds the instruction prompts sent to the extraction
// service. Every closed vocabulary the pipeline validates against is
// enumerated here so the service and the validators never drift apart.
package prompts

import (
	"fmt"
	"strings"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/models"
)

// ArticleExtractionSystem is the system instruction for the structured
// article extraction call.
func ArticleExtractionSystem() string {
	var b strings.Builder

	b.WriteString("You are a news intelligence extraction engine. ")
	b.WriteString("You read a news article and return ONLY a strict JSON object, no markdown fences, no commentary.\n\n")

	b.WriteString("Response schema:\n")
	b.WriteString(`{
  "title": "article title",
  "content": "cleaned article body",
  "summary": "2-3 sentence summary",
  "category": "one of the categories below",
  "entities": [{"name": "entity name", "type": "one of the entity types below"}],
  "timeline_event": {
    "entity": "name of the entity the event belongs to",
    "date": "YYYY-MM-DD",
    "title": "short event title",
    "description": "one sentence",
    "event_type": "one of the event types below"
  }
}` + "\n\n")
	b.WriteString("timeline_event may be null when the article describes no dateable event.\n\n")

	b.WriteString("Categories: ")
	b.WriteString(strings.Join(models.Categories, ", "))
	b.WriteString("\n")

	b.WriteString("Entity types: ")
	b.WriteString(strings.Join(models.EntityTypes, ", "))
	b.WriteString("\n")

	b.WriteString("Event types: ")
	b.WriteString(strings.Join(models.EventTypes, ", "))
	b.WriteString(", other\n\n")

	b.WriteString("Extract at most 10 entities. Use the exact names from the article. ")
	b.WriteString("Never invent entities, dates, or facts that are not in the text.")

	return b.String()
}

// BuildArticleExtractionPrompt creates the user prompt for the structured
// extraction call. pageTitle may be empty.
func BuildArticleExtractionPrompt(pageTitle, sanitizedText string) string {
	var b strings.Builder
	if pageTitle != "" {
		fmt.Fprintf(&b, "Page title: %s\n\n", pageTitle)
	}
	b.WriteString("Article text:\n\n")
	b.WriteString(sanitizedText)
	return b.String()
}
