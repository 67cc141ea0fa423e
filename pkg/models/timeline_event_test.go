package models

import "testing"

func TestNormalizeEventType_ExactMatch(t *testing.T) {
	for _, et := range EventTypes {
		if got := NormalizeEventType(et); got != et {
			t.Errorf("expected %q to pass through, got %q", et, got)
		}
	}
	if got := NormalizeEventType("other"); got != EventTypeOther {
		t.Errorf("expected %q, got %q", EventTypeOther, got)
	}
}

func TestNormalizeEventType_Keywords(t *testing.T) {
	cases := map[string]string{
		"product launch":   EventTypeRelease,
		"series A raise":   EventTypeFunding,
		"merger completed": EventTypeAcquisition,
		"new alliance":     EventTypePartnership,
		"ceo change":       EventTypeLeadership,
		"data breach":      EventTypeSecurity,
		"court ruling":     EventTypeLawsuit,
	}
	for raw, want := range cases {
		if got := NormalizeEventType(raw); got != want {
			t.Errorf("NormalizeEventType(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeEventType_FallsBackToOther(t *testing.T) {
	for _, raw := range []string{"", "anniversary", "weather"} {
		if got := NormalizeEventType(raw); got != EventTypeOther {
			t.Errorf("NormalizeEventType(%q) = %q, want %q", raw, got, EventTypeOther)
		}
	}
}
