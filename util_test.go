package main

import (
	"context"
	"testing"
	"time"
)

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		dur      time.Duration
		expected string
	}{
		{time.Second * 5, "5 seconds"},
		{time.Second * 65, "1 minute, 5 seconds"},
		{time.Second * 3665, "1 hour, 1 minute, 5 seconds"},
		{time.Second * 3600, "1 hour, 0 minutes, 0 seconds"},
		{time.Second * 60, "1 minute, 0 seconds"},
		{time.Second * 1, "1 second"},
	}
	for _, c := range cases {
		got := formatUptime(c.dur)
		if got != c.expected {
			t.Errorf("formatUptime(%v) = %q, want %q", c.dur, got, c.expected)
		}
	}
}

func TestPlural(t *testing.T) {
	if plural(1) != "" {
		t.Errorf("plural(1) = %q, want \"\"", plural(1))
	}
	if plural(2) != "s" {
		t.Errorf("plural(2) = %q, want \"s\"", plural(2))
	}
	if plural(0) != "s" {
		t.Errorf("plural(0) = %q, want \"s\"", plural(0))
	}
}

func TestEnvName(t *testing.T) {
	if envName(true) != "production" || envName(false) != "development" {
		t.Errorf("envName = %q/%q", envName(true), envName(false))
	}
}

func TestRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, "abc")
	if got := requestID(ctx); got != "abc" {
		t.Errorf("requestID = %q, want abc", got)
	}
	if got := requestID(context.Background()); got != "" {
		t.Errorf("requestID on empty context = %q", got)
	}
}
