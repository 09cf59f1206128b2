package assistant

import (
	"context"
	"strings"
	"testing"
)

func TestDisabledAlwaysApologizes(t *testing.T) {
	d := Disabled{}
	if got := d.Respond(context.Background(), "how is the harvest?", ""); got != Apology {
		t.Fatalf("expected the apology, got %q", got)
	}
	if audio, ok := d.Speak(context.Background(), "hello"); ok || audio != nil {
		t.Fatal("disabled assistant must never produce audio")
	}
}

func TestNewOpenAIResponderWithoutKeyIsDisabled(t *testing.T) {
	r := NewOpenAIResponder("", "", nil)
	if _, ok := r.(Disabled); !ok {
		t.Fatalf("expected Disabled without an API key, got %T", r)
	}
}

func TestWorkspaceContext(t *testing.T) {
	got := WorkspaceContext("admin", 3, 1, 2)
	for _, want := range []string{"user=admin", "activities=3", "sales=1", "cashMovements=2"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}
