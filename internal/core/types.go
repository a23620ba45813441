package core

import (
	"strconv"
	"time"
)

// Field names as they appear in the Column List header. They must match
// exactly (case-sensitive).
const (
	FieldSort       = "Sort"
	FieldColor      = "Color"
	FieldSection    = "Section"
	FieldName       = "Name"
	FieldClass      = "Class"
	FieldType       = "Type"
	FieldSubtype    = "Subtype"
	FieldSpeed      = "Speed"
	FieldManaCost   = "Mana Cost"
	FieldPower      = "P"
	FieldToughness  = "T"
	FieldCardText   = "Card Text"
	FieldEvasion    = "Evasion"
	FieldDrawFilter = "Draw/Filter"
	FieldTempo      = "Tempo"
	FieldTricks     = "Tricks"
	FieldRemoval    = "Removal"
	FieldRampFixing = "Ramp/Fixing"
)

// TagFields are the boolean tag columns, in the order they are evaluated.
var TagFields = []string{
	FieldEvasion,
	FieldDrawFilter,
	FieldTempo,
	FieldTricks,
	FieldRemoval,
	FieldRampFixing,
}

// RequiredFields lists every column an update run writes.
var RequiredFields = []string{
	FieldSort, FieldColor, FieldSection, FieldName, FieldClass, FieldType,
	FieldSubtype, FieldSpeed, FieldManaCost, FieldPower, FieldToughness,
	FieldCardText, FieldEvasion, FieldDrawFilter, FieldTempo, FieldTricks,
	FieldRemoval, FieldRampFixing,
}

// TagMarker is written into a tag column when the card has that property.
const TagMarker = "x"

// Class values.
const (
	ClassLand     = "Land"
	ClassCreature = "Creature"
	ClassSpell    = "Spell"
)

// Speed values.
const (
	SpeedInstant = "Instant"
	SpeedSorcery = "Sorcery"
)

// CardRow is one fully derived Card List row. Fields are mapped to columns
// by name through a ColumnSpec when the row is written.
type CardRow struct {
	Name      string
	Color     string
	Section   string
	Class     string
	Type      string
	Subtype   string
	Speed     string
	ManaCost  float64
	Power     string
	Toughness string
	CardText  string
	Tags      map[string]bool
	Sort      int
}

// Value returns the cell text for the named field. The second result is
// false for names that are not Card List fields; such columns are written
// empty.
func (r CardRow) Value(field string) (string, bool) {
	switch field {
	case FieldSort:
		return strconv.Itoa(r.Sort), true
	case FieldColor:
		return r.Color, true
	case FieldSection:
		return r.Section, true
	case FieldName:
		return r.Name, true
	case FieldClass:
		return r.Class, true
	case FieldType:
		return r.Type, true
	case FieldSubtype:
		return r.Subtype, true
	case FieldSpeed:
		return r.Speed, true
	case FieldManaCost:
		return strconv.FormatFloat(r.ManaCost, 'f', -1, 64), true
	case FieldPower:
		return r.Power, true
	case FieldToughness:
		return r.Toughness, true
	case FieldCardText:
		return r.CardText, true
	}
	for _, tag := range TagFields {
		if field == tag {
			if r.Tags[tag] {
				return TagMarker, true
			}
			return "", true
		}
	}
	return "", false
}

// RunAction names what a run did.
type RunAction string

const (
	ActionUpdate RunAction = "update"
	ActionSort   RunAction = "sort"
)

// RunRecord describes one finished update or sort run.
type RunRecord struct {
	ID         string    `json:"id"`
	Action     RunAction `json:"action"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Rows       int       `json:"rows"`
	Processed  []string  `json:"processed,omitempty"` // card names fetched, in order
	Error      string    `json:"error,omitempty"`
	Code       string    `json:"code,omitempty"`
}

// Succeeded reports whether the run finished without error.
func (r RunRecord) Succeeded() bool {
	return r.Error == ""
}

// Duration returns how long the run took.
func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
