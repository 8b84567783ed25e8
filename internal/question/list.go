package question

import "fmt"

// MergeAnswer returns a copy of list where only item k carries the given
// answer and rationale. The input slice is not modified.
func MergeAnswer(list []Question, k int, a Answer) ([]Question, error) {
	if k < 0 || k >= len(list) {
		return nil, fmt.Errorf("question index %d out of range [0,%d)", k, len(list))
	}
	out := make([]Question, len(list))
	copy(out, list)
	out[k].Answer = a.Answer
	out[k].Rationale = a.Rationale
	return out, nil
}

// Unanswered returns the indexes of questions without a complete answer.
func Unanswered(list []Question) []int {
	var idx []int
	for i, q := range list {
		if !q.HasAnswer() {
			idx = append(idx, i)
		}
	}
	return idx
}
