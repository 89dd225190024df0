package knowledge

import (
	"math"
	"sort"
)

// cosineSimilarity returns the cosine of the angle between two vectors, or 0
// when either vector is zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

type scoredPassage struct {
	passage Passage
	score   float64
}

// findTopK ranks passages by cosine similarity to the query vector and
// returns the best k, highest first.
func findTopK(query []float32, passages []Passage, k int) []Passage {
	if k <= 0 {
		return nil
	}
	scored := make([]scoredPassage, 0, len(passages))
	for _, p := range passages {
		scored = append(scored, scoredPassage{passage: p, score: cosineSimilarity(query, p.Embedding)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if k > len(scored) {
		k = len(scored)
	}
	out := make([]Passage, k)
	for i := 0; i < k; i++ {
		out[i] = scored[i].passage
	}
	return out
}
