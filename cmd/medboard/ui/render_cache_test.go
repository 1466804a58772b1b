package ui

import (
	"strings"
	"testing"
	"time"
)

func TestComputeKey(t *testing.T) {
	if ComputeKey(123) != ComputeKey(123) {
		t.Errorf("expected same hash for same int")
	}
	if ComputeKey(0.123) == ComputeKey(0.124) {
		t.Errorf("expected different hash for different float")
	}
	if ComputeKey("test", 123, 0.456, true) != ComputeKey("test", 123, 0.456, true) {
		t.Errorf("expected same hash for same mixed inputs")
	}
	if ComputeKey("prefix", 1.0) == ComputeKey("prefix", 2.0) {
		t.Errorf("float inputs must contribute to the hash")
	}
	// String boundaries are part of the key.
	if ComputeKey("ab", "c") == ComputeKey("a", "bc") {
		t.Errorf("expected string boundaries to affect the hash")
	}
}

func TestRenderCacheGetOrCompute(t *testing.T) {
	rc := NewRenderCache(time.Minute)
	calls := 0
	compute := func() string {
		calls++
		return "rendered"
	}

	key := ComputeKey("card", 40)
	if got := rc.GetOrCompute(key, compute); got != "rendered" {
		t.Fatalf("unexpected content %q", got)
	}
	if got := rc.GetOrCompute(key, compute); got != "rendered" {
		t.Fatalf("unexpected content %q", got)
	}
	if calls != 1 {
		t.Errorf("expected compute once, got %d", calls)
	}
	if rc.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", rc.Len())
	}

	rc.Clear()
	if _, ok := rc.Get(key); ok {
		t.Errorf("expected miss after Clear")
	}
}

func TestRenderCacheExpiry(t *testing.T) {
	rc := NewRenderCache(10 * time.Millisecond)
	key := ComputeKey("x")
	rc.Set(key, "v")
	time.Sleep(30 * time.Millisecond)
	if _, ok := rc.Get(key); ok {
		t.Errorf("expected entry to expire")
	}
}

func TestMarkdownRendererCachesByWidth(t *testing.T) {
	rc := NewRenderCache(0)
	mr := NewMarkdownRenderer(LightTheme(), rc)

	out := mr.Render("**Heart Rate:** 72 bpm", 40)
	if !strings.Contains(out, "72") {
		t.Fatalf("rendered output lost content: %q", out)
	}
	mr.Render("**Heart Rate:** 72 bpm", 40)
	if rc.Len() != 1 {
		t.Errorf("expected one cached render, got %d", rc.Len())
	}
	mr.Render("**Heart Rate:** 72 bpm", 60)
	if rc.Len() != 2 {
		t.Errorf("expected a second entry for a new width, got %d", rc.Len())
	}
}
