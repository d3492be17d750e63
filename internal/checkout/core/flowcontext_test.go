package core

import (
	"strings"
	"testing"
)

func TestExtractString(t *testing.T) {
	ctx := NewFlowContext(map[string]any{
		"session_id": "sess_4f8a2b9c1d3e",
		"count":      3,
		"empty":      "",
	}, nil, nil)

	got, err := ctx.ExtractString("session_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "sess_4f8a2b9c1d3e" {
		t.Errorf("got %q", got)
	}

	for _, key := range []string{"missing", "count", "empty"} {
		if _, err := ctx.ExtractString(key); err == nil {
			t.Errorf("expected error for key %q", key)
		} else if !strings.Contains(err.Error(), key) {
			t.Errorf("error should name the missing key, got %v", err)
		}
	}
}

func TestOptionalString(t *testing.T) {
	ctx := NewFlowContext(map[string]any{
		"slot_id": "665f1f77bcf86cd799439021",
		"count":   3,
	}, nil, nil)

	if got := ctx.OptionalString("slot_id"); got != "665f1f77bcf86cd799439021" {
		t.Errorf("got %q", got)
	}
	if got := ctx.OptionalString("missing"); got != "" {
		t.Errorf("expected empty for absent key, got %q", got)
	}
	if got := ctx.OptionalString("count"); got != "" {
		t.Errorf("expected empty for non-string value, got %q", got)
	}
}

func TestNewFlowContext_InitializesMaps(t *testing.T) {
	ctx := NewFlowContext(nil, nil, nil)
	if ctx.Process == nil || ctx.Output == nil {
		t.Fatal("process and output maps must be usable immediately")
	}
	ctx.Process["k"] = "v"
	ctx.Output["k"] = "v"
}
