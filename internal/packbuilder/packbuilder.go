// Package packbuilder turns a DraftConfig and a DraftPool into the flat
// sequence of packs a lobby hands to its draft state machine.
package packbuilder

import (
	"errors"
	"fmt"
	"math/rand"

	"draftlite/internal/card"
	"draftlite/internal/cardpool"
)

// Config mirrors DraftConfig: rounds is the pack count per player,
// cards_per_pack the size of each pack, and the rares/uncommons/commons
// split must sum to cards_per_pack whenever UseRarities is set.
type Config struct {
	Rounds        int
	CardsPerPack  int
	UniqueCards   bool
	UseRarities   bool
	AllowFallback bool
	MythicRate    float64
	Rares         int
	Uncommons     int
	Commons       int
}

// DefaultConfig mirrors the original tool's defaults: a three-round draft
// of 15-card packs with a 1/3/11 rare/uncommon/common split and a 1-in-8
// mythic incidence.
func DefaultConfig() Config {
	return Config{
		Rounds:        3,
		CardsPerPack:  15,
		UniqueCards:   true,
		UseRarities:   true,
		AllowFallback: true,
		MythicRate:    0.125,
		Rares:         1,
		Uncommons:     3,
		Commons:       11,
	}
}

// Pack is an ordered sequence of cards, length CardsPerPack.
type Pack []card.Card

// ErrRaritySplitMismatch is returned when Rares+Uncommons+Commons does
// not equal CardsPerPack while UseRarities is set.
var ErrRaritySplitMismatch = errors.New("rarity split does not sum to cards per pack")

// BuildPacks produces exactly players*config.Rounds packs in one flat
// sequence, selecting among three modes by (UniqueCards, UseRarities).
// A later round's packs are emitted first in the returned slice, since
// the draft state machine pops from the tail; callers must not rely on
// any other ordering.
func BuildPacks(players int, cfg Config, pool *cardpool.DraftPool) ([]Pack, error) {
	if cfg.UseRarities && cfg.Rares+cfg.Uncommons+cfg.Commons != cfg.CardsPerPack {
		return nil, fmt.Errorf("%w: %d+%d+%d != %d", ErrRaritySplitMismatch, cfg.Rares, cfg.Uncommons, cfg.Commons, cfg.CardsPerPack)
	}
	total := players * cfg.Rounds

	switch {
	case cfg.UniqueCards && cfg.UseRarities:
		return buildCubeWithSlots(total, cfg, pool)
	case cfg.UniqueCards && !cfg.UseRarities:
		return buildCubeRandom(total, cfg, pool)
	default:
		return buildBoosterWithReplacement(total, cfg, pool)
	}
}

// buildCubeWithSlots is mode 1: unique sampling, rarity-structured packs.
// Every draw is destructive.
func buildCubeWithSlots(total int, cfg Config, pool *cardpool.DraftPool) ([]Pack, error) {
	pool.ShuffleAll()

	packs := make([]Pack, 0, total)
	for i := 0; i < total; i++ {
		pack := make(Pack, 0, cfg.CardsPerPack)
		for s := 0; s < cfg.Rares; s++ {
			r := card.Rare
			if rand.Float64() < cfg.MythicRate {
				r = card.Mythic
			}
			c, err := pool.Take(r, cfg.AllowFallback)
			if err != nil {
				return nil, fmt.Errorf("pack %d rare slot %d: %w", i, s, err)
			}
			pack = append(pack, c)
		}
		for s := 0; s < cfg.Uncommons; s++ {
			c, err := pool.Take(card.Uncommon, cfg.AllowFallback)
			if err != nil {
				return nil, fmt.Errorf("pack %d uncommon slot %d: %w", i, s, err)
			}
			pack = append(pack, c)
		}
		for s := 0; s < cfg.Commons; s++ {
			c, err := pool.Take(card.Common, cfg.AllowFallback)
			if err != nil {
				return nil, fmt.Errorf("pack %d common slot %d: %w", i, s, err)
			}
			pack = append(pack, c)
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

// buildCubeRandom is mode 2: unique sampling, no rarity structure.
// Concatenate every bucket, shuffle, then pop cards_per_pack cards per
// pack.
func buildCubeRandom(total int, cfg Config, pool *cardpool.DraftPool) ([]Pack, error) {
	all := pool.AllCards()
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	need := total * cfg.CardsPerPack
	if len(all) < need {
		return nil, fmt.Errorf("%w: pool has %d cards, need %d", cardpool.ErrInsufficientCards, len(all), need)
	}

	packs := make([]Pack, 0, total)
	for i := 0; i < total; i++ {
		start := i * cfg.CardsPerPack
		pack := make(Pack, cfg.CardsPerPack)
		copy(pack, all[start:start+cfg.CardsPerPack])
		packs = append(packs, pack)
	}
	pool.ReplaceAll(all[need:])
	return packs, nil
}

// buildBoosterWithReplacement is mode 3: same slot structure as mode 1,
// but every draw is a non-destructive Roll, so the pool is shared across
// packs and a card may repeat within or across packs.
func buildBoosterWithReplacement(total int, cfg Config, pool *cardpool.DraftPool) ([]Pack, error) {
	packs := make([]Pack, 0, total)
	for i := 0; i < total; i++ {
		pack := make(Pack, 0, cfg.CardsPerPack)
		for s := 0; s < cfg.Rares; s++ {
			r := card.Rare
			if rand.Float64() < cfg.MythicRate {
				r = card.Mythic
			}
			c, err := pool.Roll(r, cfg.AllowFallback)
			if err != nil {
				return nil, fmt.Errorf("pack %d rare slot %d: %w", i, s, err)
			}
			pack = append(pack, c)
		}
		for s := 0; s < cfg.Uncommons; s++ {
			c, err := pool.Roll(card.Uncommon, cfg.AllowFallback)
			if err != nil {
				return nil, fmt.Errorf("pack %d uncommon slot %d: %w", i, s, err)
			}
			pack = append(pack, c)
		}
		for s := 0; s < cfg.Commons; s++ {
			c, err := pool.Roll(card.Common, cfg.AllowFallback)
			if err != nil {
				return nil, fmt.Errorf("pack %d common slot %d: %w", i, s, err)
			}
			pack = append(pack, c)
		}
		packs = append(packs, pack)
	}
	return packs, nil
}
