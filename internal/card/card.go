// Package card defines the value types shared by every draft package: the
// Rarity enum and the Card itself.
package card

import "fmt"

// Rarity tags a Card. Special and Bonus are recognized so a catalog can
// round-trip them, but they never enter a DraftPool.
type Rarity int

const (
	Mythic Rarity = iota
	Rare
	Uncommon
	Common
	Special
	Bonus
)

func (r Rarity) String() string {
	switch r {
	case Mythic:
		return "Mythic"
	case Rare:
		return "Rare"
	case Uncommon:
		return "Uncommon"
	case Common:
		return "Common"
	case Special:
		return "Special"
	case Bonus:
		return "Bonus"
	default:
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
}

// PoolEligible reports whether the rarity is ever stored in a DraftPool
// bucket.
func (r Rarity) PoolEligible() bool {
	switch r {
	case Mythic, Rare, Uncommon, Common:
		return true
	default:
		return false
	}
}

// Card is an immutable description of one card. Zero value is not a valid
// card; use New.
type Card struct {
	Name   string
	Image  string
	Set    string
	Rarity Rarity
	Text   string
}

// New constructs a Card. Kept as a function (rather than a bare struct
// literal convention) to mirror the way the rest of the package exposes
// construction, and to leave room for future validation.
func New(name, image, set string, rarity Rarity, text string) Card {
	return Card{Name: name, Image: image, Set: set, Rarity: rarity, Text: text}
}

func (c Card) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Rarity)
}
