package llm

import "testing"

func TestExtractJSON_Plain(t *testing.T) {
	got, err := ExtractJSON(`{"title": "hello"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"title": "hello"}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSON_CodeFence(t *testing.T) {
	response := "```json\n{\"title\": \"hello\", \"entities\": []}\n```"
	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"title": "hello", "entities": []}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSON_BareFence(t *testing.T) {
	response := "```\n[{\"subject\": \"a\"}]\n```"
	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `[{"subject": "a"}]` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	response := "Here is the result:\n{\"category\": \"models\"}\nLet me know if you need more."
	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"category": "models"}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSON_ThinkTags(t *testing.T) {
	response := "<think>reasoning about the article</think>\n{\"title\": \"x\"}"
	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"title": "x"}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	response := `{"timeline_event": {"title": "launch {v2}"}, "entities": [{"name": "Acme"}]}`
	got, err := ExtractJSON(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != response {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	if _, err := ExtractJSON("I could not process this article."); err == nil {
		t.Error("expected error for prose-only response")
	}
}

func TestParseJSONResponse(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	got, err := ParseJSONResponse[payload]("```json\n{\"title\": \"fenced\"}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "fenced" {
		t.Errorf("got %q, want %q", got.Title, "fenced")
	}

	if _, err := ParseJSONResponse[payload](`{"title": 42}`); err == nil {
		t.Error("expected unmarshal error for mistyped field")
	}
}
