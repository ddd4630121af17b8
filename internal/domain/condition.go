package domain

import (
	"strings"
	"time"
)

// FuelLevel is an ordinal scale from FuelFull (best) to FuelEmpty (worst).
// The zero value is FuelUnknown and never compares.
type FuelLevel int

const (
	FuelUnknown FuelLevel = iota
	FuelFull
	FuelThreeQuarters
	FuelHalf
	FuelQuarter
	FuelEmpty
)

var fuelNames = map[FuelLevel]string{
	FuelFull:          "full",
	FuelThreeQuarters: "3/4",
	FuelHalf:          "1/2",
	FuelQuarter:       "1/4",
	FuelEmpty:         "empty",
}

var fuelAliases = map[string]FuelLevel{
	"full":           FuelFull,
	"3/4":            FuelThreeQuarters,
	"three_quarters": FuelThreeQuarters,
	"1/2":            FuelHalf,
	"half":           FuelHalf,
	"1/4":            FuelQuarter,
	"quarter":        FuelQuarter,
	"empty":          FuelEmpty,
}

// ParseFuelLevel accepts the canonical names plus a few spelled-out aliases.
func ParseFuelLevel(s string) FuelLevel {
	if f, ok := fuelAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f
	}
	return FuelUnknown
}

// Rank returns the position on the scale, full=0 ... empty=4.
func (f FuelLevel) Rank() (int, bool) {
	if f < FuelFull || f > FuelEmpty {
		return 0, false
	}
	return int(f - FuelFull), true
}

func (f FuelLevel) String() string {
	if name, ok := fuelNames[f]; ok {
		return name
	}
	return ""
}

func (f FuelLevel) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText never fails: unrecognized input decodes to FuelUnknown.
func (f *FuelLevel) UnmarshalText(text []byte) error {
	*f = ParseFuelLevel(string(text))
	return nil
}

// ConditionGrade is an ordinal scale from GradeExcellent (best) to
// GradePoor (worst), shared by exterior and interior assessments.
type ConditionGrade int

const (
	GradeUnknown ConditionGrade = iota
	GradeExcellent
	GradeGood
	GradeFair
	GradePoor
)

var gradeNames = map[ConditionGrade]string{
	GradeExcellent: "excellent",
	GradeGood:      "good",
	GradeFair:      "fair",
	GradePoor:      "poor",
}

func ParseConditionGrade(s string) ConditionGrade {
	s = strings.ToLower(strings.TrimSpace(s))
	for g, name := range gradeNames {
		if name == s {
			return g
		}
	}
	return GradeUnknown
}

// Rank returns the position on the scale, excellent=0 ... poor=3.
func (g ConditionGrade) Rank() (int, bool) {
	if g < GradeExcellent || g > GradePoor {
		return 0, false
	}
	return int(g - GradeExcellent), true
}

func (g ConditionGrade) String() string {
	return gradeNames[g]
}

func (g ConditionGrade) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *ConditionGrade) UnmarshalText(text []byte) error {
	*g = ParseConditionGrade(string(text))
	return nil
}

type ConditionPhase string

const (
	ConditionPhaseBefore ConditionPhase = "before"
	ConditionPhaseAfter  ConditionPhase = "after"
)

type Photo struct {
	URL        string    `json:"url"`
	CapturedAt time.Time `json:"capturedAt"`
}

type ConditionSnapshot struct {
	FuelLevel         FuelLevel      `json:"fuelLevel"`
	ExteriorCondition ConditionGrade `json:"exteriorCondition"`
	InteriorCondition ConditionGrade `json:"interiorCondition"`
	Notes             string         `json:"notes"`
	Odometer          int64          `json:"odometer"`
	Photos            []Photo        `json:"photos"`
	RecordedBy        string         `json:"recordedBy"`
	RecordedAt        time.Time      `json:"recordedAt"`
}

// IsEmpty reports whether nothing was recorded for this phase.
func (s *ConditionSnapshot) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.FuelLevel == FuelUnknown &&
		s.ExteriorCondition == GradeUnknown &&
		s.InteriorCondition == GradeUnknown &&
		s.Odometer == 0 &&
		s.Notes == "" &&
		len(s.Photos) == 0
}

func (s *ConditionSnapshot) Clone() *ConditionSnapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Photos = append([]Photo(nil), s.Photos...)
	return &c
}

type ConditionRecord struct {
	BeforeRental *ConditionSnapshot `json:"beforeRental,omitempty"`
	AfterRental  *ConditionSnapshot `json:"afterRental,omitempty"`
}
