package service

import (
	"sync"

	"github.com/google/uuid"

	"filechat/internal/domain"
	"filechat/internal/store"
	"filechat/internal/store/memory"
)

// Status is the session-level state of the assistant.
type Status int

const (
	StatusNoFiles Status = iota
	StatusFilesIndexed
)

func (s Status) String() string {
	if s == StatusFilesIndexed {
		return "files indexed"
	}
	return "no files"
}

// SessionState is everything one user session owns: the corpus of the last
// upload batch and the conversation transcript. Handlers serialize on it.
type SessionState struct {
	ID     string
	Corpus store.Storage

	mu         sync.Mutex
	transcript []domain.Message
}

// NewSessionState starts an empty session backed by an in-memory corpus.
func NewSessionState() *SessionState {
	return &SessionState{ID: uuid.NewString(), Corpus: memory.NewStorage()}
}

// Status reports whether any files are indexed.
func (st *SessionState) Status() Status {
	if st.Corpus.Len() == 0 {
		return StatusNoFiles
	}
	return StatusFilesIndexed
}

// Transcript returns a copy of the conversation so far.
func (st *SessionState) Transcript() []domain.Message {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]domain.Message, len(st.transcript))
	copy(out, st.transcript)
	return out
}

// record appends an exchange; callers hold st.mu.
func (st *SessionState) record(question, answer string) {
	st.transcript = append(st.transcript,
		domain.Message{Role: domain.RoleUser, Content: question},
		domain.Message{Role: domain.RoleAssistant, Content: answer},
	)
}
