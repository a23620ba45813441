package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/JonMunkholm/PauperCube/internal/scryfall"
	"github.com/dlclark/regexp2"
)

// Color identity letters and section names in WUBRG order.
var (
	colorCodes = []string{"W", "U", "B", "R", "G"}
	colorNames = []string{"White", "Blue", "Black", "Red", "Green"}
)

// Section names that are not a single color.
const (
	SectionMulti     = "Multi"
	SectionColorless = "Colorless"
	SectionLand      = "Land"
	ColorColorless   = "CL"
)

// typeDash separates types from subtypes on a type line.
const typeDash = "—"

// flashPattern finds the Flash keyword but not Flashback.
var flashPattern = regexp2.MustCompile(`Flash(?!back)`, patternOptions)

// GetColor maps a color identity to its color code and section. The code
// lists the colors in WUBRG order whatever the input order; the section is
// the color name for one color, Multi for more, Colorless for none.
func GetColor(identity []string) (code, section string) {
	if len(identity) == 0 {
		return ColorColorless, SectionColorless
	}

	var b strings.Builder
	for i, c := range colorCodes {
		if slices.Contains(identity, c) {
			b.WriteString(c)
			section = colorNames[i]
		}
	}
	if len(identity) > 1 {
		section = SectionMulti
	}
	return b.String(), section
}

// SplitTypeLine splits "Creature — Human Wizard" into its type and subtype
// at the first dash. Without a dash the whole line is the type.
func SplitTypeLine(typeLine string) (typ, subtype string) {
	i := strings.Index(typeLine, typeDash)
	if i < 0 {
		return typeLine, ""
	}
	return strings.TrimSpace(typeLine[:i]), strings.TrimSpace(typeLine[i+len(typeDash):])
}

// Speed returns Instant for instants and cards with Flash, else Sorcery.
func Speed(typ, oracleText string) (string, error) {
	if strings.Contains(typ, "Instant") {
		return SpeedInstant, nil
	}
	ok, err := flashPattern.MatchString(oracleText)
	if err != nil {
		return "", fmt.Errorf("match flash: %w", err)
	}
	if ok {
		return SpeedInstant, nil
	}
	return SpeedSorcery, nil
}

// MatchTag reports whether any pattern of the rule matches text. Patterns
// are tried top-down and the first match ends the scan.
func MatchTag(rule TagRule, text string) (bool, error) {
	for _, re := range rule.Patterns {
		ok, err := re.MatchString(text)
		if err != nil {
			return false, fmt.Errorf("match %s pattern %q: %w", rule.Field, re.String(), err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Transform derives a Card List row from card metadata. The Sort field is
// filled in as the last step.
func Transform(card *scryfall.Card, rules []TagRule) (CardRow, error) {
	row := CardRow{
		Name:     card.Name,
		ManaCost: card.CMC,
		CardText: card.OracleText,
		Tags:     make(map[string]bool, len(rules)),
	}

	row.Color, row.Section = GetColor(card.ColorIdentity)
	row.Type, row.Subtype = SplitTypeLine(card.TypeLine)

	speed, err := Speed(row.Type, card.OracleText)
	if err != nil {
		return CardRow{}, fmt.Errorf("transform %q: %w", card.Name, err)
	}
	row.Speed = speed

	switch {
	case strings.Contains(row.Type, "Land"):
		row.Class = ClassLand
		row.Color = SectionLand
		row.Section = SectionLand
	case strings.Contains(row.Type, "Creature"):
		row.Class = ClassCreature
		row.Power = card.Power
		row.Toughness = card.Toughness
	default:
		row.Class = ClassSpell
	}

	for _, rule := range rules {
		ok, err := MatchTag(rule, row.CardText)
		if err != nil {
			return CardRow{}, fmt.Errorf("transform %q: %w", card.Name, err)
		}
		row.Tags[rule.Field] = ok
	}

	row.Sort = SortKey(row)
	return row, nil
}
