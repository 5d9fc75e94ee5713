//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterNarrowsList(t *testing.T) {
	s, _ := startBrowsing(t)

	_ = s.Send("/")
	assert.True(t, s.See("Filter:"), "filter prompt should appear")

	_ = s.Type("rust")
	if !s.See("[Filter: rust]") {
		s.Fail("filter indicator should show the typed text")
	}
	assert.True(t, s.See("1 articles"))

	_ = s.Send(KeyEnter)
	assert.True(t, s.See("Rust for Gophers"))
}

func TestFilterWithoutMatches(t *testing.T) {
	s, _ := startBrowsing(t)

	_ = s.Send("/")
	_ = s.Type("zzz")
	if !s.See("No articles match the filter.") {
		s.Fail("empty filter result should be explained")
	}
}
