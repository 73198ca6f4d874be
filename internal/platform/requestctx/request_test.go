package requestctx

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("RequestIDFromContext() = %q, want req-1", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("RequestIDFromContext() = %q, want empty", got)
	}
}

func TestLocaleRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithLocale(WithRequestID(nil, "req-2"), "en-US")
	if got := LocaleFromContext(ctx); got != "en-US" {
		t.Fatalf("LocaleFromContext() = %q, want en-US", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-2" {
		t.Fatalf("RequestIDFromContext() = %q, want req-2", got)
	}
	if got := LocaleFromContext(nil); got != "" {
		t.Fatalf("LocaleFromContext(nil) = %q, want empty", got)
	}
}
