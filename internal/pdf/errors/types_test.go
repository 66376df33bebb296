package errors

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestExtractionError_Error(t *testing.T) {
	err := Wrap(KindOpen, "/data/a.pdf", fmt.Errorf("bad header"))
	msg := err.Error()
	for _, want := range []string{"OPEN_FAILED", "/data/a.pdf", "bad header"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want it to contain %q", msg, want)
		}
	}

	paged := New(KindMalformedPage, "", "page unreadable").WithPage(3)
	if !strings.Contains(paged.Error(), "(page 3)") {
		t.Errorf("Error() = %q, want page number", paged.Error())
	}
}

func TestExtractionError_IsAndAs(t *testing.T) {
	cause := os.ErrPermission
	err := fmt.Errorf("processing: %w", Wrap(KindOpen, "a.pdf", cause))

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if !errors.Is(err, &ExtractionError{Kind: KindOpen}) {
		t.Error("expected errors.Is to match on kind")
	}
	if errors.Is(err, &ExtractionError{Kind: KindNoText}) {
		t.Error("expected errors.Is not to match a different kind")
	}

	var target *ExtractionError
	if !errors.As(err, &target) || target.FilePath != "a.pdf" {
		t.Errorf("errors.As failed or lost file path: %+v", target)
	}

	if !IsKind(err, KindOpen) || IsKind(err, KindStructure) || IsKind(nil, KindOpen) {
		t.Error("IsKind mismatch")
	}
}

func TestKind_IsRecoverable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindUnknown, false},
		{KindInvalidFile, false},
		{KindOpen, false},
		{KindStructure, false},
		{KindMalformedPage, true},
		{KindNoText, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.IsRecoverable(); got != tt.want {
				t.Errorf("IsRecoverable() = %v, want %v", got, tt.want)
			}
			if got := New(tt.kind, "", "x").Recoverable; got != tt.want {
				t.Errorf("New().Recoverable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageErrors(t *testing.T) {
	p := NewPageErrors("a.pdf")
	if p.Len() != 0 {
		t.Fatalf("expected empty collection")
	}

	p.Add(2, fmt.Errorf("null page"))
	p.Add(5, fmt.Errorf("parser panic"))

	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	if !reflect.DeepEqual(p.Pages(), []int{2, 5}) {
		t.Errorf("Pages() = %v", p.Pages())
	}
	for _, e := range p.Errors {
		if e.Kind != KindMalformedPage || e.FilePath != "a.pdf" || !e.Recoverable {
			t.Errorf("unexpected page error %+v", e)
		}
	}
}
