// Package retriever ranks corpus chunks against a query by keyword overlap.
package retriever

import (
	"sort"

	"filechat/internal/domain"
	"filechat/internal/tokenize"
)

var _ domain.Retriever = (*KeywordRetriever)(nil)

// KeywordRetriever scores a chunk as the sum, over the query tokens, of how
// often each token occurs in the chunk. Repeated query tokens count once per
// repetition, so "cat cat" scores a chunk twice as high as "cat".
type KeywordRetriever struct{}

func NewKeywordRetriever() *KeywordRetriever { return &KeywordRetriever{} }

// Retrieve returns at most topK matches with a positive score, best first.
// Equal scores keep corpus order.
func (r *KeywordRetriever) Retrieve(corpus domain.CorpusReader, query string, topK int) []domain.Match {
	queryTokens := tokenize.Tokens(query)
	if len(queryTokens) == 0 || topK <= 0 {
		return nil
	}
	var matches []domain.Match
	for _, doc := range corpus.Documents() {
		for i, chunk := range doc.Chunks {
			score := Score(queryTokens, chunk)
			if score == 0 {
				continue
			}
			matches = append(matches, domain.Match{
				File:       doc.Name,
				ChunkText:  chunk,
				Score:      score,
				ChunkIndex: i,
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// Score is the keyword-overlap score of chunk for the given query tokens.
func Score(queryTokens []string, chunk string) int {
	counts := tokenize.Counts(chunk)
	if len(counts) == 0 {
		return 0
	}
	score := 0
	for _, t := range queryTokens {
		score += counts[t]
	}
	return score
}
