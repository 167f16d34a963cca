package memory

import (
	"sync"

	"filechat/internal/domain"
)

// Storage is an in-memory corpus. Documents keep upload order.
type Storage struct {
	mu   sync.RWMutex
	docs []domain.UploadedDocument
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Replace(docs []domain.UploadedDocument) {
	cp := make([]domain.UploadedDocument, len(docs))
	copy(cp, docs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = cp
}

// Documents returns a snapshot of the corpus. The slice is owned by the
// caller; documents themselves must not be modified.
func (s *Storage) Documents() []domain.UploadedDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UploadedDocument, len(s.docs))
	copy(out, s.docs)
	return out
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
