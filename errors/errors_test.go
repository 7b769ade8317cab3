package errors

import (
	"fmt"
	"testing"
)

func TestPresetError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeNotFound, "preset not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeWriteFailed, "write failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	// Test Is function
	if !Is(wrapped, ErrCodeWriteFailed) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// Is follows fmt.Errorf chains
	outer := fmt.Errorf("saving: %w", wrapped)
	if !Is(outer, ErrCodeWriteFailed) {
		t.Error("Is should see through wrapped errors")
	}

	// Test WithDetail
	detailed := err.WithDetail("name", "web").WithDetail("index", 3)
	if detailed.Details["name"] != "web" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := DuplicateKey("web")
	if err.Code != ErrCodeDuplicateKey {
		t.Errorf("expected code %s, got %s", ErrCodeDuplicateKey, err.Code)
	}
	if err.Details["name"] != "web" {
		t.Error("DuplicateKey should include name detail")
	}

	err = TargetWrite("/tmp/x.json", fmt.Errorf("permission denied"))
	if err.Code != ErrCodeTargetWrite {
		t.Errorf("expected code %s, got %s", ErrCodeTargetWrite, err.Code)
	}
	if err.Details["path"] != "/tmp/x.json" {
		t.Error("TargetWrite should include path detail")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{DuplicateKey("a"), KindValidation},
		{EmptyKey(), KindValidation},
		{InvalidShape("array"), KindValidation},
		{InvalidJSON(fmt.Errorf("bad")), KindValidation},
		{NotFound("a"), KindNotFound},
		{NoSelection(), KindNotFound},
		{NoTarget(), KindNotFound},
		{ReadFailed("p", nil), KindIO},
		{TargetWrite("p", nil), KindIO},
		{fmt.Errorf("plain"), KindInternal},
		{nil, KindInternal},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
