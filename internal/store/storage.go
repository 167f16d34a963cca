package store

import "filechat/internal/domain"

// Storage holds the corpus of the current upload batch.
type Storage interface {
	domain.CorpusReader
	// Replace swaps the whole corpus for docs.
	Replace(docs []domain.UploadedDocument)
	Len() int
}
