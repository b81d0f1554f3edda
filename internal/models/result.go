package models

import (
	"cmp"
	"fmt"
	"strconv"
)

// RequirementKind discriminates the three requirement clause shapes
type RequirementKind int

const (
	// KindRange requires a category's points to lie in [Min, Max]
	KindRange RequirementKind = iota
	// KindIsMax requires a category to hold the highest points (ties allowed)
	KindIsMax
	// KindLessThan holds when category A has strictly more points than category B.
	// The name follows the document format's "-1 A B" clause, whose effect is A > B.
	KindLessThan
)

// String returns the string representation of the RequirementKind
func (k RequirementKind) String() string {
	switch k {
	case KindRange:
		return "range"
	case KindIsMax:
		return "is-max"
	case KindLessThan:
		return "less-than"
	default:
		return "unknown"
	}
}

// Requirement is one predicate over final category points
type Requirement struct {
	Kind     RequirementKind
	Category int     // Range and IsMax target; LessThan left-hand category (A)
	Other    int     // LessThan right-hand category (B)
	Min      float64 // Range lower bound, inclusive
	Max      float64 // Range upper bound, inclusive
}

// NewRange builds a Range(category, min, max) clause
func NewRange(category int, min, max float64) Requirement {
	return Requirement{Kind: KindRange, Category: category, Min: min, Max: max}
}

// NewIsMax builds an IsMax(category) clause
func NewIsMax(category int) Requirement {
	return Requirement{Kind: KindIsMax, Category: category}
}

// NewLessThan builds a LessThan(a, b) clause, which holds when a outscores b
func NewLessThan(a, b int) Requirement {
	return Requirement{Kind: KindLessThan, Category: a, Other: b}
}

// Code returns the integer discriminator used by the text format:
// the category ordinal for Range, 0 for IsMax and -1 for LessThan.
func (r Requirement) Code() int {
	switch r.Kind {
	case KindIsMax:
		return 0
	case KindLessThan:
		return -1
	default:
		return r.Category
	}
}

// Ordinals returns every category ordinal the clause references
func (r Requirement) Ordinals() []int {
	if r.Kind == KindLessThan {
		return []int{r.Category, r.Other}
	}
	return []int{r.Category}
}

// sortKey is (discriminator, min, max) as stored in the document
func (r Requirement) sortKey() (int, float64, float64) {
	switch r.Kind {
	case KindIsMax:
		return 0, float64(r.Category), 0
	case KindLessThan:
		return -1, float64(r.Category), float64(r.Other)
	default:
		return r.Category, r.Min, r.Max
	}
}

// CompareRequirements orders clauses by discriminator, then min, then max
func CompareRequirements(a, b Requirement) int {
	ak, amin, amax := a.sortKey()
	bk, bmin, bmax := b.sortKey()
	if c := cmp.Compare(ak, bk); c != 0 {
		return c
	}
	if c := cmp.Compare(amin, bmin); c != 0 {
		return c
	}
	return cmp.Compare(amax, bmax)
}

func (r Requirement) String() string {
	switch r.Kind {
	case KindIsMax:
		return fmt.Sprintf("is-max(%d)", r.Category)
	case KindLessThan:
		return fmt.Sprintf("less-than(%d, %d)", r.Category, r.Other)
	default:
		return fmt.Sprintf("range(%d, %s, %s)", r.Category, formatFloat(r.Min), formatFloat(r.Max))
	}
}

// Result is an outcome whose requirements must all hold for it to match
type Result struct {
	Text         string        // Description shown to the user
	Requirements []Requirement // Conjunction
}

// CompareResults orders results by clause count, then clause by clause
func CompareResults(a, b *Result) int {
	if c := cmp.Compare(len(a.Requirements), len(b.Requirements)); c != 0 {
		return c
	}
	for i := range a.Requirements {
		if c := CompareRequirements(a.Requirements[i], b.Requirements[i]); c != 0 {
			return c
		}
	}
	return 0
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
