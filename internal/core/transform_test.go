package core

import (
	"testing"

	"github.com/JonMunkholm/PauperCube/internal/scryfall"
	"github.com/JonMunkholm/PauperCube/internal/sheet"
)

func TestGetColor(t *testing.T) {
	tests := []struct {
		name        string
		identity    []string
		wantCode    string
		wantSection string
	}{
		{"colorless nil", nil, "CL", "Colorless"},
		{"colorless empty", []string{}, "CL", "Colorless"},
		{"white", []string{"W"}, "W", "White"},
		{"green", []string{"G"}, "G", "Green"},
		{"azorius", []string{"W", "U"}, "WU", "Multi"},
		{"azorius reversed", []string{"U", "W"}, "WU", "Multi"},
		{"three colors", []string{"G", "R", "B"}, "BRG", "Multi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, section := GetColor(tt.identity)
			if code != tt.wantCode || section != tt.wantSection {
				t.Errorf("GetColor(%v) = (%q, %q), want (%q, %q)",
					tt.identity, code, section, tt.wantCode, tt.wantSection)
			}
		})
	}
}

func TestSplitTypeLine(t *testing.T) {
	tests := []struct {
		line        string
		wantType    string
		wantSubtype string
	}{
		{"Creature — Human Wizard", "Creature", "Human Wizard"},
		{"Land", "Land", ""},
		{"Artifact Creature — Golem", "Artifact Creature", "Golem"},
		{"Instant", "Instant", ""},
		{"Creature — Elf // Sorcery — Adventure", "Creature", "Elf // Sorcery — Adventure"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			typ, sub := SplitTypeLine(tt.line)
			if typ != tt.wantType || sub != tt.wantSubtype {
				t.Errorf("SplitTypeLine(%q) = (%q, %q), want (%q, %q)",
					tt.line, typ, sub, tt.wantType, tt.wantSubtype)
			}
		})
	}
}

func TestSpeed(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		oracle string
		want   string
	}{
		{"instant type", "Instant", "Draw a card.", SpeedInstant},
		{"flash keyword", "Creature", "Flash\nFlying", SpeedInstant},
		{"flash lowercase", "Enchantment", "You may cast spells as though they had flash.", SpeedInstant},
		{"flashback only", "Sorcery", "Flashback {2}{R}", SpeedSorcery},
		{"flashback and flash", "Creature", "Flashback {3}. Flash", SpeedInstant},
		{"instant with flashback", "Instant", "Flashback {1}{U}", SpeedInstant},
		{"nothing", "Creature", "Trample", SpeedSorcery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Speed(tt.typ, tt.oracle)
			if err != nil {
				t.Fatalf("Speed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Speed(%q, %q) = %q, want %q", tt.typ, tt.oracle, got, tt.want)
			}
		})
	}
}

func testRules(t *testing.T) []TagRule {
	t.Helper()
	rules, err := NewColumnSpec(columnListFixture()).TagRules(TagFields)
	if err != nil {
		t.Fatalf("TagRules: %v", err)
	}
	return rules
}

func TestTransform_Creature(t *testing.T) {
	card := &scryfall.Card{
		Name:          "Spellstutter Sprite",
		ColorIdentity: []string{"U"},
		TypeLine:      "Creature — Faerie Wizard",
		OracleText:    "Flash\nFlying\nWhen Spellstutter Sprite enters, counter target spell.",
		CMC:           2,
		Power:         "1",
		Toughness:     "1",
	}

	row, err := Transform(card, testRules(t))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	checks := []struct{ field, got, want string }{
		{"Name", row.Name, "Spellstutter Sprite"},
		{"Color", row.Color, "U"},
		{"Section", row.Section, "Blue"},
		{"Class", row.Class, ClassCreature},
		{"Type", row.Type, "Creature"},
		{"Subtype", row.Subtype, "Faerie Wizard"},
		{"Speed", row.Speed, SpeedInstant},
		{"P", row.Power, "1"},
		{"T", row.Toughness, "1"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if row.ManaCost != 2 {
		t.Errorf("ManaCost = %v, want 2", row.ManaCost)
	}
	if !row.Tags[FieldEvasion] {
		t.Error("Evasion tag not set for flying creature")
	}
	if row.Tags[FieldRemoval] {
		t.Error("Removal tag set unexpectedly")
	}
	// Blue (2) * 10000 + no guild (0) + Creature (1) * 10 + 2
	if row.Sort != 20012 {
		t.Errorf("Sort = %d, want 20012", row.Sort)
	}
}

func TestTransform_LandOverride(t *testing.T) {
	card := &scryfall.Card{
		Name:          "Ash Barrens",
		ColorIdentity: []string{"W", "U"},
		TypeLine:      "Land",
		OracleText:    "{T}: Add {C}.\nBasic landcycling {1}",
		Power:         "3",
		Toughness:     "3",
	}

	row, err := Transform(card, testRules(t))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if row.Color != SectionLand || row.Section != SectionLand || row.Class != ClassLand {
		t.Errorf("Color/Section/Class = %q/%q/%q, want Land/Land/Land", row.Color, row.Section, row.Class)
	}
	if row.Power != "" || row.Toughness != "" {
		t.Errorf("P/T = %q/%q, want empty", row.Power, row.Toughness)
	}
	if !row.Tags[FieldRampFixing] {
		t.Error("Ramp/Fixing tag not set for mana ability")
	}
}

func TestTransform_SpellHasNoPT(t *testing.T) {
	card := &scryfall.Card{
		Name:          "Lightning Bolt",
		ColorIdentity: []string{"R"},
		TypeLine:      "Instant",
		OracleText:    "Lightning Bolt deals 3 damage to any target.",
		CMC:           1,
		Power:         "9",
	}

	row, err := Transform(card, testRules(t))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if row.Class != ClassSpell || row.Power != "" || row.Toughness != "" {
		t.Errorf("Class=%q P=%q T=%q, want Spell with empty P/T", row.Class, row.Power, row.Toughness)
	}
	if row.Speed != SpeedInstant {
		t.Errorf("Speed = %q, want Instant", row.Speed)
	}
	if !row.Tags[FieldRemoval] {
		t.Error("Removal tag not set by damage pattern")
	}
}

func TestMatchTag(t *testing.T) {
	spec := NewColumnSpec(sheet.Table{
		{"Tempo", "Tricks"},
		{"tap target", ""},
		{"^Flash(?!back)", ""},
	})
	rules, err := spec.TagRules([]string{"Tempo", "Tricks"})
	if err != nil {
		t.Fatalf("TagRules: %v", err)
	}
	tempo, tricks := rules[0], rules[1]

	tests := []struct {
		name string
		rule TagRule
		text string
		want bool
	}{
		{"first pattern", tempo, "Tap target creature.", true},
		{"second pattern with lookahead", tempo, "flash\nFlying", true},
		{"lookahead rejects", tempo, "Flashback {2}", false},
		{"no match", tempo, "Draw a card.", false},
		{"empty column never matches", tricks, "anything at all", false},
		{"empty text", tempo, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchTag(tt.rule, tt.text)
			if err != nil {
				t.Fatalf("MatchTag: %v", err)
			}
			if got != tt.want {
				t.Errorf("MatchTag(%s, %q) = %v, want %v", tt.rule.Field, tt.text, got, tt.want)
			}
		})
	}
}

func TestCardRow_Value(t *testing.T) {
	row := CardRow{
		Name:     "Ponder",
		ManaCost: 1.5,
		Sort:     20051,
		Tags:     map[string]bool{FieldDrawFilter: true},
	}

	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{FieldName, "Ponder", true},
		{FieldManaCost, "1.5", true},
		{FieldSort, "20051", true},
		{FieldDrawFilter, TagMarker, true},
		{FieldEvasion, "", true},
		{"Notes", "", false},
	}

	for _, tt := range tests {
		got, ok := row.Value(tt.field)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Value(%q) = (%q, %v), want (%q, %v)", tt.field, got, ok, tt.want, tt.wantOK)
		}
	}
}
