// Package cardpool implements DraftPool: a card store bucketed by rarity,
// with destructive and non-destructive rarity-aware sampling and a
// fallback policy for exhausted buckets.
package cardpool

import (
	"errors"
	"fmt"
	"math/rand"

	"draftlite/internal/card"
)

// ErrInsufficientCards is returned when a bucket (and every fallback
// candidate) is exhausted.
var ErrInsufficientCards = errors.New("insufficient cards")

// insufficientCardsError names the rarity that could not be satisfied, so
// callers and logs get a useful message without string-matching on
// ErrInsufficientCards.
type insufficientCardsError struct {
	rarity card.Rarity
}

func (e *insufficientCardsError) Error() string {
	return fmt.Sprintf("insufficient cards: %s", e.rarity)
}

func (e *insufficientCardsError) Unwrap() error { return ErrInsufficientCards }

func newInsufficientCards(r card.Rarity) error {
	return &insufficientCardsError{rarity: r}
}

// fallbackOrder is the rarity-to-priority-list table from the fallback
// policy: when the exact bucket is empty, try these rarities in order.
var fallbackOrder = map[card.Rarity][]card.Rarity{
	card.Mythic:   {card.Rare, card.Uncommon, card.Common},
	card.Rare:     {card.Mythic, card.Uncommon, card.Common},
	card.Uncommon: {card.Common, card.Rare, card.Mythic},
	card.Common:   {card.Uncommon, card.Rare, card.Mythic},
}

// DraftPool is a pool of available cards bucketed by rarity. The zero
// value is ready to use.
type DraftPool struct {
	mythics   []card.Card
	rares     []card.Card
	uncommons []card.Card
	commons   []card.Card
}

// New returns an empty pool.
func New() *DraftPool {
	return &DraftPool{}
}

// Clone returns a deep copy; mutating the clone never affects the
// original. Used by the lobby actor to keep a pristine pool around while
// handing a working copy to the pack builder.
func (p *DraftPool) Clone() *DraftPool {
	clone := &DraftPool{
		mythics:   append([]card.Card(nil), p.mythics...),
		rares:     append([]card.Card(nil), p.rares...),
		uncommons: append([]card.Card(nil), p.uncommons...),
		commons:   append([]card.Card(nil), p.commons...),
	}
	return clone
}

// Add appends c to the bucket for its rarity. Special and Bonus cards are
// silently dropped: they are never pool-eligible.
func (p *DraftPool) Add(c card.Card) {
	switch c.Rarity {
	case card.Mythic:
		p.mythics = append(p.mythics, c)
	case card.Rare:
		p.rares = append(p.rares, c)
	case card.Uncommon:
		p.uncommons = append(p.uncommons, c)
	case card.Common:
		p.commons = append(p.commons, c)
	}
}

func (p *DraftPool) bucket(r card.Rarity) *[]card.Card {
	switch r {
	case card.Mythic:
		return &p.mythics
	case card.Rare:
		return &p.rares
	case card.Uncommon:
		return &p.uncommons
	case card.Common:
		return &p.commons
	default:
		return nil
	}
}

// CardsOf returns a read-only snapshot of the bucket for r.
func (p *DraftPool) CardsOf(r card.Rarity) []card.Card {
	b := p.bucket(r)
	if b == nil {
		return nil
	}
	out := make([]card.Card, len(*b))
	copy(out, *b)
	return out
}

// Empty reports whether every pool-eligible bucket is empty.
func (p *DraftPool) Empty() bool {
	return len(p.mythics) == 0 && len(p.rares) == 0 && len(p.uncommons) == 0 && len(p.commons) == 0
}

// Take removes and returns one card of rarity r (or a fallback rarity per
// the policy below), destructively.
func (p *DraftPool) Take(r card.Rarity, allowFallback bool) (card.Card, error) {
	return p.sample(r, allowFallback, true)
}

// Roll returns one card of rarity r (or a fallback rarity), chosen
// uniformly at random, without removing it from the pool.
func (p *DraftPool) Roll(r card.Rarity, allowFallback bool) (card.Card, error) {
	return p.sample(r, allowFallback, false)
}

// sample implements the shared fallback logic for Take and Roll. If the
// exact bucket is empty, and either allowFallback is true or r is Mythic
// with a non-empty Rare bucket (a missing mythic always degrades to a
// rare even when strict), it draws from the first non-empty bucket in
// the fallback order; that draw never falls back any further.
func (p *DraftPool) sample(r card.Rarity, allowFallback, destructive bool) (card.Card, error) {
	b := p.bucket(r)
	if b == nil {
		return card.Card{}, newInsufficientCards(r)
	}
	if len(*b) > 0 {
		if destructive {
			return p.pop(b), nil
		}
		return (*b)[rand.Intn(len(*b))], nil
	}

	mythicUpgrade := r == card.Mythic && len(p.rares) > 0
	if !allowFallback && !mythicUpgrade {
		return card.Card{}, newInsufficientCards(r)
	}

	for _, fb := range fallbackOrder[r] {
		fbBucket := p.bucket(fb)
		if fbBucket != nil && len(*fbBucket) > 0 {
			if destructive {
				return p.pop(fbBucket), nil
			}
			return (*fbBucket)[rand.Intn(len(*fbBucket))], nil
		}
	}
	return card.Card{}, newInsufficientCards(r)
}

func (p *DraftPool) pop(b *[]card.Card) card.Card {
	n := len(*b)
	c := (*b)[n-1]
	*b = (*b)[:n-1]
	return c
}

// shuffleBucket shuffles a bucket in place; exported via ShuffleAll for
// the pack builder's cube modes.
func shuffleBucket(b []card.Card) {
	rand.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
}

// ShuffleAll shuffles every bucket in place. Used before unique-sampling
// modes so destructive Take calls draw in random order.
func (p *DraftPool) ShuffleAll() {
	shuffleBucket(p.mythics)
	shuffleBucket(p.rares)
	shuffleBucket(p.uncommons)
	shuffleBucket(p.commons)
}

// AllCards returns every card across all buckets, concatenated. Used by
// the pack builder's no-rarities cube mode.
func (p *DraftPool) AllCards() []card.Card {
	out := make([]card.Card, 0, len(p.mythics)+len(p.rares)+len(p.uncommons)+len(p.commons))
	out = append(out, p.mythics...)
	out = append(out, p.rares...)
	out = append(out, p.uncommons...)
	out = append(out, p.commons...)
	return out
}

// ReplaceAll discards current buckets and re-adds every card in cards.
// Used by the no-rarities cube mode after it deals the merged, shuffled
// sequence out into per-pack slices, to leave only the undealt cards in
// the pool.
func (p *DraftPool) ReplaceAll(cards []card.Card) {
	p.mythics = nil
	p.rares = nil
	p.uncommons = nil
	p.commons = nil
	for _, c := range cards {
		p.Add(c)
	}
}
