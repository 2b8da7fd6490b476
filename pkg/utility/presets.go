package utility

import "fmt"

// CoefficientSet is a versioned pair of dwelling and region coefficient
// tables for one kind of geography.
type CoefficientSet struct {
	Version  string
	Dwelling Coefficients
	// DwellingBySize overrides Dwelling for individual size brackets.
	DwellingBySize map[int]Coefficients
	Region         Coefficients
}

var presets = map[string]CoefficientSet{
	// US geographies: race composition, school quality and crime enter both
	// stages.
	"us-race-v1": {
		Version: "us-race-v1",
		Dwelling: Coefficients{
			TermPrice:         0.35,
			TermQuality:       0.20,
			TermSize:          0.15,
			TermAutoAccess:    0.10,
			TermTransitAccess: 0.05,
			TermSchool:        0.10,
			TermCrime:         0.05,
		},
		DwellingBySize: map[int]Coefficients{
			0: {TermPrice: 0.40, TermQuality: 0.20, TermSize: 0.05, TermAutoAccess: 0.10, TermTransitAccess: 0.15, TermSchool: 0.02, TermCrime: 0.08},
		},
		Region: Coefficients{
			TermPrice:  0.30,
			TermAccess: 0.20,
			TermSchool: 0.20,
			TermCrime:  0.10,
			TermShare:  0.20,
		},
	},
	// German geographies: nationality composition, no school or crime data.
	"de-nationality-v1": {
		Version: "de-nationality-v1",
		Dwelling: Coefficients{
			TermPrice:         0.40,
			TermQuality:       0.20,
			TermSize:          0.20,
			TermAutoAccess:    0.10,
			TermTransitAccess: 0.10,
		},
		Region: Coefficients{
			TermPrice:  0.40,
			TermAccess: 0.30,
			TermShare:  0.30,
		},
	},
}

// Preset returns a copy of a named coefficient set.
func Preset(version string) (CoefficientSet, error) {
	p, ok := presets[version]
	if !ok {
		return CoefficientSet{}, fmt.Errorf("unknown coefficient set %q", version)
	}
	out := CoefficientSet{
		Version:        p.Version,
		Dwelling:       copyCoefficients(p.Dwelling),
		DwellingBySize: make(map[int]Coefficients, len(p.DwellingBySize)),
		Region:         copyCoefficients(p.Region),
	}
	for size, c := range p.DwellingBySize {
		out.DwellingBySize[size] = copyCoefficients(c)
	}
	return out, nil
}

func copyCoefficients(c Coefficients) Coefficients {
	out := make(Coefficients, len(c))
	for t, w := range c {
		out[t] = w
	}
	return out
}
