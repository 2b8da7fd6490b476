// Package utility scores dwellings and regions for household types. Utility
// functions are declared as coefficient tables and compiled into closures;
// geography-specific behavior is a matter of which table is loaded.
package utility

import (
	"fmt"
	"sort"
)

// Term is one normalized sub-utility, each in [0, 1].
type Term int

const (
	TermPrice Term = iota
	TermQuality
	TermSize
	TermAutoAccess
	TermTransitAccess
	TermAccess
	TermSchool
	TermCrime
	TermShare
	numTerms
)

var termNames = [numTerms]string{
	TermPrice:         "price",
	TermQuality:       "quality",
	TermSize:          "size",
	TermAutoAccess:    "auto_access",
	TermTransitAccess: "transit_access",
	TermAccess:        "access",
	TermSchool:        "school",
	TermCrime:         "crime",
	TermShare:         "share",
}

func (t Term) String() string {
	if t >= 0 && t < numTerms {
		return termNames[t]
	}
	return fmt.Sprintf("term(%d)", int(t))
}

// ParseTerm resolves a term name as used in scenario files.
func ParseTerm(name string) (Term, error) {
	for i, n := range termNames {
		if n == name {
			return Term(i), nil
		}
	}
	return 0, fmt.Errorf("unknown utility term %q", name)
}

// Inputs holds the sub-utility values of one alternative.
type Inputs [numTerms]float64

// Coefficients weight the terms of a utility function.
type Coefficients map[Term]float64

// UtilityFunction scores one alternative.
type UtilityFunction func(in *Inputs) float64

type weightedTerm struct {
	term   Term
	weight float64
}

// Compile turns a coefficient table into a utility function: the weighted
// mean of the listed terms. Weights must be non-negative with a positive sum,
// so the result stays in [0, 1].
func Compile(c Coefficients) (UtilityFunction, error) {
	terms := make([]weightedTerm, 0, len(c))
	total := 0.0
	for term, w := range c {
		if term < 0 || term >= numTerms {
			return nil, fmt.Errorf("unknown utility term %d", int(term))
		}
		if w < 0 {
			return nil, fmt.Errorf("coefficient of %s is negative (%.4f)", term, w)
		}
		if w == 0 {
			continue
		}
		terms = append(terms, weightedTerm{term, w})
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("coefficient table has no positive weight")
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].term < terms[j].term })
	for i := range terms {
		terms[i].weight /= total
	}

	return func(in *Inputs) float64 {
		u := 0.0
		for _, wt := range terms {
			u += wt.weight * in[wt.term]
		}
		return u
	}, nil
}

// WithOverrides returns a copy of c with the named weights replaced.
func (c Coefficients) WithOverrides(overrides map[string]float64) (Coefficients, error) {
	out := make(Coefficients, len(c)+len(overrides))
	for t, w := range c {
		out[t] = w
	}
	for name, w := range overrides {
		t, err := ParseTerm(name)
		if err != nil {
			return nil, err
		}
		out[t] = w
	}
	return out, nil
}
