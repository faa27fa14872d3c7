package match

import "sort"

// DefaultMinScore is the lowest similarity still worth suggesting.
const DefaultMinScore = 0.5

// Suggestion is a known name scored against an unknown one.
type Suggestion struct {
	Name  string
	Score float64
}

// Suggestions is ordered by descending score, then name.
type Suggestions []Suggestion

// Rank scores every candidate against name.
func Rank(name string, candidates []string) Suggestions {
	out := make(Suggestions, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Suggestion{Name: c, Score: IdentSimilarity(name, c)})
	}

	sort.Sort(out)

	return out
}

// Len implements sort.Interface.
func (s Suggestions) Len() int { return len(s) }

// Swap implements sort.Interface.
func (s Suggestions) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Less implements sort.Interface.
func (s Suggestions) Less(i, j int) bool {
	if s[i].Score != s[j].Score {
		return s[i].Score > s[j].Score
	}

	return s[i].Name < s[j].Name
}

// Above returns the suggestions scoring at least minScore.
func (s Suggestions) Above(minScore float64) Suggestions {
	var out Suggestions

	for _, sg := range s {
		if sg.Score >= minScore {
			out = append(out, sg)
		}
	}

	return out
}

// Names returns the suggested names in order.
func (s Suggestions) Names() []string {
	out := make([]string, 0, len(s))
	for _, sg := range s {
		out = append(out, sg.Name)
	}

	return out
}

// Closest returns the best candidate for name when it scores at least
// DefaultMinScore.
func Closest(name string, candidates []string) (string, bool) {
	ranked := Rank(name, candidates).Above(DefaultMinScore)
	if len(ranked) == 0 {
		return "", false
	}

	return ranked[0].Name, true
}
