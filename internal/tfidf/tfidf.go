// Package tfidf implements a bag-of-words TF-IDF vectorizer with English stop
// word removal and cosine similarity over the resulting sparse vectors.
package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned when no terms survive tokenization and stop
// word removal across the whole collection.
var ErrEmptyVocabulary = errors.New("empty vocabulary; documents may only contain stop words")

// Vector is a sparse, L2-normalized weight vector. Indices are vocabulary
// positions in ascending order; Weights is parallel to Indices.
type Vector struct {
	Indices []int
	Weights []float64
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int { return len(v.Indices) }

// Vectorizer learns a vocabulary and IDF weights from a collection.
type Vectorizer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}

	vocabulary map[string]int
	idf        []float64
}

// NewVectorizer returns a vectorizer that drops the English stop word list.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}_]{2,}`),
		stopwords:    EnglishStopWords(),
	}
}

// Vocabulary returns the learned term → index mapping.
func (v *Vectorizer) Vocabulary() map[string]int { return v.vocabulary }

// IDF returns the learned weight for term, or 0 if the term is unknown.
func (v *Vectorizer) IDF(term string) float64 {
	idx, ok := v.vocabulary[term]
	if !ok {
		return 0
	}
	return v.idf[idx]
}

// Tokenize lowercases text and returns its non-stop-word tokens in order.
func (v *Vectorizer) Tokenize(text string) []string {
	raw := v.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := v.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FitTransform learns the vocabulary from docs and returns one vector per doc,
// in input order.
func (v *Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, text := range docs {
		tokens := v.Tokenize(text)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Stable ordering for vocabulary.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF.
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	vectors := make([]Vector, len(docs))
	for i, tokens := range tokenized {
		vectors[i] = v.weigh(tokens)
	}
	return vectors, nil
}

// Transform vectorizes text against the learned vocabulary; unknown terms are
// ignored.
func (v *Vectorizer) Transform(text string) Vector {
	return v.weigh(v.Tokenize(text))
}

func (v *Vectorizer) weigh(tokens []string) Vector {
	counts := make(map[int]float64)
	for _, tok := range tokens {
		if idx, ok := v.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Weights: make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	norm := 0.0
	for _, idx := range vec.Indices {
		w := counts[idx] * v.idf[idx]
		vec.Weights = append(vec.Weights, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Weights {
			vec.Weights[i] /= norm
		}
	}
	return vec
}

// Cosine returns the cosine similarity of two L2-normalized vectors, clamped
// to [0,1]. Empty vectors score 0.
func Cosine(a, b Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Weights[i] * b.Weights[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	switch {
	case sum < 0:
		return 0
	case sum > 1:
		return 1
	}
	return sum
}
