package models

// BadgeTier is the ordinal campaign rank. Tiers only ever move forward,
// one step per successful mint.
type BadgeTier string

const (
	BadgeBrown  BadgeTier = "BROWN"
	BadgeBlue   BadgeTier = "BLUE"
	BadgeGreen  BadgeTier = "GREEN"
	BadgeYellow BadgeTier = "YELLOW"
	BadgeRed    BadgeTier = "RED"
	BadgeNeon   BadgeTier = "NEON" // terminal
)

// badgeOrder is the single source of truth for tier ordering.
var badgeOrder = []BadgeTier{
	BadgeBrown,
	BadgeBlue,
	BadgeGreen,
	BadgeYellow,
	BadgeRed,
	BadgeNeon,
}

func (b BadgeTier) Valid() bool {
	return b.Ordinal() >= 0
}

// Ordinal returns the tier's position in the progression, or -1 for an
// unknown tier.
func (b BadgeTier) Ordinal() int {
	for i, t := range badgeOrder {
		if t == b {
			return i
		}
	}
	return -1
}

// Successor returns the next tier up. ok is false at NEON (terminal) and
// for unknown tiers.
func (b BadgeTier) Successor() (BadgeTier, bool) {
	i := b.Ordinal()
	if i < 0 || i == len(badgeOrder)-1 {
		return b, false
	}
	return badgeOrder[i+1], true
}
