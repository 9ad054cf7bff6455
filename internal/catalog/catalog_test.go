package catalog

import (
	"testing"

	"draftlite/internal/card"
)

func TestDecodeCockatriceXML(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?>
<cockatrice_carddatabase version="4">
  <cards>
    <card>
      <name>Lightning Bolt</name>
      <text>Deal 3 damage to any target.</text>
      <set rarity="Common" picURL="http://example/bolt.jpg">TST</set>
    </card>
    <card>
      <name>Black Lotus</name>
      <text>Sacrifice: add three mana of any one color.</text>
      <set rarity="Mythic Rare" picURL="http://example/lotus.jpg">TST</set>
    </card>
  </cards>
</cockatrice_carddatabase>`)

	db, err := DecodeCockatriceXML(doc)
	if err != nil {
		t.Fatalf("DecodeCockatriceXML: %v", err)
	}
	if db.Size() != 2 {
		t.Fatalf("Size: got %d, want 2", db.Size())
	}
	bolt, ok := db.Lookup("lightning bolt")
	if !ok {
		t.Fatalf("Lookup is case-insensitive: Lightning Bolt not found")
	}
	if bolt.Rarity != card.Common {
		t.Fatalf("got rarity %v, want Common", bolt.Rarity)
	}
	lotus, ok := db.Lookup("Black Lotus")
	if !ok || lotus.Rarity != card.Mythic {
		t.Fatalf("Black Lotus should resolve to Mythic, got %v ok=%v", lotus.Rarity, ok)
	}
}

func TestDecodeCockatriceXML_UnrecognizedRarity(t *testing.T) {
	doc := []byte(`<cockatrice_carddatabase><cards><card>
		<name>Mystery</name><set rarity="Unobtainium">TST</set>
	</card></cards></cockatrice_carddatabase>`)
	if _, err := DecodeCockatriceXML(doc); err == nil {
		t.Fatalf("expected an error for an unrecognized rarity")
	}
}

func TestCachedLookup_ShadowingOrder(t *testing.T) {
	baseline := NewDatabase()
	baseline.Add(card.New("Shock", "", "BASE", card.Common, "baseline text"))

	upload := NewDatabase()
	upload.Add(card.New("Shock", "", "UPLOAD", card.Rare, "custom text"))

	lookup := NewCachedLookup(upload, baseline)
	c, ok := lookup.Lookup("Shock")
	if !ok || c.Set != "UPLOAD" {
		t.Fatalf("upload database should shadow baseline, got %+v", c)
	}
}

func TestCachedLookup_FallsThroughToBaseline(t *testing.T) {
	baseline := NewDatabase()
	baseline.Add(card.New("Island", "", "BASE", card.Common, ""))

	lookup := NewCachedLookup(NewDatabase(), baseline)
	c, ok := lookup.Lookup("island")
	if !ok || c.Set != "BASE" {
		t.Fatalf("expected fallthrough to baseline, got %+v ok=%v", c, ok)
	}
}

func TestParseMythicRate(t *testing.T) {
	if _, err := ParseMythicRate("1.5"); err == nil {
		t.Fatalf("expected an error for an out-of-range mythic rate")
	}
	v, err := ParseMythicRate("0.125")
	if err != nil || v != 0.125 {
		t.Fatalf("got %v err=%v, want 0.125", v, err)
	}
}
