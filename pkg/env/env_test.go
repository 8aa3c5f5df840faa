package env

import "testing"

func TestGetTrimsAndFallsBack(t *testing.T) {
	t.Setenv("SHOWROOM_LOG_FORMAT", "  ")
	if got := Get("SHOWROOM_LOG_FORMAT", "json"); got != "json" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
	t.Setenv("SHOWROOM_LOG_FORMAT", " console ")
	if got := Get("SHOWROOM_LOG_FORMAT", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("SHOWROOM_INSTANCE_ID", "")
	t.Setenv("HOSTNAME", "api-7f9c")
	if got := First("local", "SHOWROOM_INSTANCE_ID", "HOSTNAME"); got != "api-7f9c" {
		t.Fatalf("expected hostname, got %q", got)
	}
	t.Setenv("SHOWROOM_INSTANCE_ID", "api-1")
	if got := First("local", "SHOWROOM_INSTANCE_ID", "HOSTNAME"); got != "api-1" {
		t.Fatalf("expected instance id, got %q", got)
	}
	t.Setenv("HOSTNAME", "")
	t.Setenv("SHOWROOM_INSTANCE_ID", "")
	if got := First("local", "SHOWROOM_INSTANCE_ID", "HOSTNAME"); got != "local" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
