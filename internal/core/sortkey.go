package core

import "slices"

// Canonical orderings for the sort key. Values missing from a list rank -1
// and so add nothing to the key.
var (
	SectionOrder = []string{"White", "Blue", "Black", "Red", "Green", SectionMulti, SectionColorless, SectionLand}
	ColorOrder   = []string{"WU", "WB", "WR", "WG", "UB", "UR", "UG", "BR", "BG", "RG"}
	TypeOrder    = []string{"Creature", "Artifact Creature", "Enchantment", "Instant", "Sorcery", "Artifact", "Land"}
)

// SortKey encodes section, guild color pair, type and mana cost into one
// integer:
//
//	10000*(section+1) + 100*(color+1) + 10*(type+1) + manaCost
//
// The mana cost is added unscaled, so a cost of 10 or more carries into the
// type digit. A fractional cost is truncated.
func SortKey(row CardRow) int {
	key := 10000 * (slices.Index(SectionOrder, row.Section) + 1)
	key += 100 * (slices.Index(ColorOrder, row.Color) + 1)
	key += 10 * (slices.Index(TypeOrder, row.Type) + 1)
	key += int(row.ManaCost)
	return key
}
