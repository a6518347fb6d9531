package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadgeTierOrdering(t *testing.T) {
	assert.Equal(t, 0, BadgeBrown.Ordinal())
	assert.Equal(t, 5, BadgeNeon.Ordinal())
	assert.Less(t, BadgeBrown.Ordinal(), BadgeBlue.Ordinal())
	assert.Less(t, BadgeRed.Ordinal(), BadgeNeon.Ordinal())
	assert.Equal(t, -1, BadgeTier("PURPLE").Ordinal())
}

func TestBadgeTierSuccessor(t *testing.T) {
	tests := []struct {
		from BadgeTier
		want BadgeTier
		ok   bool
	}{
		{BadgeBrown, BadgeBlue, true},
		{BadgeBlue, BadgeGreen, true},
		{BadgeGreen, BadgeYellow, true},
		{BadgeYellow, BadgeRed, true},
		{BadgeRed, BadgeNeon, true},
		{BadgeNeon, BadgeNeon, false}, // terminal
		{BadgeTier("PURPLE"), BadgeTier("PURPLE"), false},
	}

	for _, tt := range tests {
		got, ok := tt.from.Successor()
		assert.Equal(t, tt.ok, ok, "from %s", tt.from)
		assert.Equal(t, tt.want, got, "from %s", tt.from)
	}
}

func TestBadgeTierValid(t *testing.T) {
	for _, tier := range badgeOrder {
		assert.True(t, tier.Valid())
	}
	assert.False(t, BadgeTier("").Valid())
	assert.False(t, BadgeTier("brown").Valid())
}
