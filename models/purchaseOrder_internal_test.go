package models

import (
	"testing"
	"time"
)

func TestOrderDateOrNow(t *testing.T) {
	sent := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if got := orderDateOrNow(sent); !got.Equal(sent) {
		t.Fatalf("explicit order date changed: got %s", got)
	}

	before := time.Now()
	got := orderDateOrNow(time.Time{})
	if got.Before(before) || got.After(time.Now()) {
		t.Fatalf("zero order date not defaulted to now: got %s", got)
	}
}
