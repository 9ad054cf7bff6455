package packbuilder

import (
	"errors"
	"testing"

	"draftlite/internal/card"
	"draftlite/internal/cardpool"
)

func fillPool(t *testing.T, n int) *cardpool.DraftPool {
	t.Helper()
	p := cardpool.New()
	for i := 0; i < n; i++ {
		p.Add(card.New("Mythic", "", "TST", card.Mythic, ""))
		p.Add(card.New("Rare", "", "TST", card.Rare, ""))
		p.Add(card.New("Uncommon", "", "TST", card.Uncommon, ""))
		p.Add(card.New("Common", "", "TST", card.Common, ""))
	}
	return p
}

func TestBuildPacks_CubeWithSlots_Count(t *testing.T) {
	cfg := Config{
		Rounds: 2, CardsPerPack: 4, UniqueCards: true, UseRarities: true,
		AllowFallback: true, MythicRate: 0, Rares: 1, Uncommons: 1, Commons: 2,
	}
	pool := fillPool(t, 8)
	packs, err := BuildPacks(3, cfg, pool)
	if err != nil {
		t.Fatalf("BuildPacks: %v", err)
	}
	if got, want := len(packs), 3*cfg.Rounds; got != want {
		t.Fatalf("BuildPacks: got %d packs, want %d", got, want)
	}
	for _, p := range packs {
		if len(p) != cfg.CardsPerPack {
			t.Fatalf("BuildPacks: pack length %d, want %d", len(p), cfg.CardsPerPack)
		}
	}
}

func TestBuildPacks_MythicRateOne_EveryPackHasMythic(t *testing.T) {
	cfg := Config{
		Rounds: 1, CardsPerPack: 4, UniqueCards: true, UseRarities: true,
		AllowFallback: true, MythicRate: 1.0, Rares: 1, Uncommons: 1, Commons: 2,
	}
	pool := fillPool(t, 4)
	packs, err := BuildPacks(4, cfg, pool)
	if err != nil {
		t.Fatalf("BuildPacks: %v", err)
	}
	for i, p := range packs {
		found := false
		for _, c := range p {
			if c.Rarity == card.Mythic {
				found = true
			}
		}
		if !found {
			t.Fatalf("pack %d has no Mythic despite mythic_rate=1.0", i)
		}
	}
}

func TestBuildPacks_MythicRateZero_NoPackHasMythic(t *testing.T) {
	cfg := Config{
		Rounds: 1, CardsPerPack: 4, UniqueCards: true, UseRarities: true,
		AllowFallback: true, MythicRate: 0, Rares: 1, Uncommons: 1, Commons: 2,
	}
	pool := fillPool(t, 8)
	packs, err := BuildPacks(4, cfg, pool)
	if err != nil {
		t.Fatalf("BuildPacks: %v", err)
	}
	for i, p := range packs {
		for _, c := range p {
			if c.Rarity == card.Mythic {
				t.Fatalf("pack %d has a Mythic despite mythic_rate=0", i)
			}
		}
	}
}

func TestBuildPacks_UniqueModes_NoDuplicateBeyondSourceMultiplicity(t *testing.T) {
	cfg := Config{
		Rounds: 1, CardsPerPack: 4, UniqueCards: true, UseRarities: true,
		AllowFallback: true, MythicRate: 0, Rares: 1, Uncommons: 1, Commons: 2,
	}
	pool := fillPool(t, 1)
	packs, err := BuildPacks(1, cfg, pool)
	if err != nil {
		t.Fatalf("BuildPacks: %v", err)
	}
	seen := map[string]int{}
	for _, p := range packs {
		for _, c := range p {
			seen[c.Name]++
		}
	}
	for name, count := range seen {
		if count > 1 {
			t.Fatalf("card %q appeared %d times in a unique-mode draft with one copy in the source pool", name, count)
		}
	}
}

func TestBuildPacks_CubeRandom_NoRarities(t *testing.T) {
	pool := cardpool.New()
	pool.Add(card.New("A", "", "TST", card.Common, ""))
	pool.Add(card.New("B", "", "TST", card.Rare, ""))
	pool.Add(card.New("C", "", "TST", card.Uncommon, ""))
	pool.Add(card.New("D", "", "TST", card.Mythic, ""))

	cfg := Config{Rounds: 1, CardsPerPack: 2, UniqueCards: true, UseRarities: false}
	packs, err := BuildPacks(2, cfg, pool)
	if err != nil {
		t.Fatalf("BuildPacks: %v", err)
	}
	if len(packs) != 2 {
		t.Fatalf("got %d packs, want 2", len(packs))
	}
}

func TestBuildPacks_BoosterWithReplacement_CanRepeat(t *testing.T) {
	pool := cardpool.New()
	pool.Add(card.New("Only", "", "TST", card.Common, ""))

	cfg := Config{
		Rounds: 1, CardsPerPack: 3, UniqueCards: false, UseRarities: true,
		AllowFallback: true, MythicRate: 0, Rares: 0, Uncommons: 0, Commons: 3,
	}
	packs, err := BuildPacks(1, cfg, pool)
	if err != nil {
		t.Fatalf("BuildPacks: %v", err)
	}
	for _, c := range packs[0] {
		if c.Name != "Only" {
			t.Fatalf("got %q, want Only in every slot", c.Name)
		}
	}
	if pool.Empty() {
		t.Fatalf("non-unique mode must not drain the pool")
	}
}

func TestBuildPacks_InsufficientCards_NoFallback(t *testing.T) {
	pool := cardpool.New()
	pool.Add(card.New("Only", "", "TST", card.Common, ""))

	cfg := Config{
		Rounds: 1, CardsPerPack: 2, UniqueCards: true, UseRarities: true,
		AllowFallback: false, MythicRate: 0, Rares: 1, Uncommons: 0, Commons: 1,
	}
	_, err := BuildPacks(1, cfg, pool)
	if !errors.Is(err, cardpool.ErrInsufficientCards) {
		t.Fatalf("got %v, want ErrInsufficientCards", err)
	}
}

func TestBuildPacks_RaritySplitMismatch(t *testing.T) {
	cfg := Config{Rounds: 1, CardsPerPack: 4, UniqueCards: true, UseRarities: true, Rares: 1, Uncommons: 1, Commons: 1}
	_, err := BuildPacks(1, cfg, cardpool.New())
	if !errors.Is(err, ErrRaritySplitMismatch) {
		t.Fatalf("got %v, want ErrRaritySplitMismatch", err)
	}
}
