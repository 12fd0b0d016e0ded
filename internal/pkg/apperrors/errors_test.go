package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "direct kind",
			err:  New(KindValidation, "bad input"),
			want: KindValidation,
		},
		{
			name: "wrapped kind survives fmt wrapping",
			err:  fmt.Errorf("outer: %w", New(KindGeneration, "model failed")),
			want: KindGeneration,
		},
		{
			name: "unclassified defaults to storage",
			err:  errors.New("plain"),
			want: KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("root cause")
	err := Wrap(KindStorage, "save failed", inner)

	if !errors.Is(err, inner) {
		t.Error("wrapped error lost its cause")
	}
	if err.Error() != "save failed: root cause" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(KindNotFound, "missing")

	if !Is(err, KindNotFound) {
		t.Error("Is(KindNotFound) = false")
	}
	if Is(err, KindValidation) {
		t.Error("Is(KindValidation) = true for a not-found error")
	}
	if Is(errors.New("plain"), KindNotFound) {
		t.Error("plain error matched a kind")
	}
}
