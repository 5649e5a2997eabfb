package cpix

import "sort"

// filterScorer accumulates per-candidate error for the tile filter
// chooser. Candidates are addressed by a dense index.
type filterScorer struct {
	scores  []int
	indices []int // scratch for top-k selection
}

func newFilterScorer(n int) *filterScorer {
	return &filterScorer{
		scores:  make([]int, n),
		indices: make([]int, n),
	}
}

// reset zeroes all scores.
func (s *filterScorer) reset() {
	clear(s.scores)
}

// add accumulates delta onto candidate index.
func (s *filterScorer) add(index, delta int) {
	s.scores[index] += delta
}

// lowest returns the candidate with the smallest score; ties prefer the
// earlier index.
func (s *filterScorer) lowest() (index, score int) {
	index, score = 0, s.scores[0]
	for i, sc := range s.scores {
		if sc < score {
			index, score = i, sc
		}
	}
	return index, score
}

// top returns the k candidate indices with the smallest scores, ordered
// best first; equal scores prefer the earlier index.
func (s *filterScorer) top(k int) []int {
	if k > len(s.scores) {
		k = len(s.scores)
	}
	for i := range s.indices {
		s.indices[i] = i
	}
	sort.SliceStable(s.indices, func(a, b int) bool {
		return s.scores[s.indices[a]] < s.scores[s.indices[b]]
	})
	return s.indices[:k]
}
