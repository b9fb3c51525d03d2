package util

import "github.com/sahilm/fuzzy"

// Candidate is a completion value with an optional description shown by
// shells that support it.
type Candidate struct {
	Value string
	Desc  string
}

type candidates []Candidate

func (c candidates) String(i int) string { return c[i].Value }
func (c candidates) Len() int            { return len(c) }

// ScoreCandidates ranks cands by fuzzy match against input and returns at
// most n entries in cobra's "value\tdescription" form. An empty input keeps
// the original order; n <= 0 means no limit.
func ScoreCandidates(input string, cands []Candidate, n int) []string {
	var picked []Candidate
	if input == "" {
		picked = cands
	} else {
		for _, m := range fuzzy.FindFrom(input, candidates(cands)) {
			picked = append(picked, cands[m.Index])
		}
	}
	if n > 0 && len(picked) > n {
		picked = picked[:n]
	}
	if len(picked) == 0 {
		return nil
	}
	out := make([]string, len(picked))
	for i, c := range picked {
		out[i] = c.Value
		if c.Desc != "" {
			out[i] += "\t" + c.Desc
		}
	}
	return out
}

// ScoreCompletions is ScoreCandidates for bare strings.
func ScoreCompletions(input string, values []string, n int) []string {
	cands := make([]Candidate, len(values))
	for i, v := range values {
		cands[i] = Candidate{Value: v}
	}
	return ScoreCandidates(input, cands, n)
}
