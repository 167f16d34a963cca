package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"filechat/internal/domain"
	"filechat/internal/loader"
)

const (
	// NoCorpusMessage answers questions asked before any upload.
	NoCorpusMessage = "No files have been uploaded. This assistant can only answer based on the files you upload. " +
		"Upload one or more files (txt, pdf, docx) and ask a question about their contents."
	// PreviewPlaceholder stands in for a preview that could not be extracted.
	PreviewPlaceholder = "(Could not extract a preview for this file.)"
	previewMaxChars    = 3000
)

var (
	ErrNoCorpus        = errors.New("no files uploaded")
	ErrUnknownDocument = errors.New("no uploaded file with that name")
)

// Settings holds the tunables of the service.
type Settings struct {
	TopK                int
	SummaryMaxSentences int
	// Extensions filters files picked up from directories by UploadPaths.
	Extensions []string
}

type RAGServiceImpl struct {
	extractor  domain.Extractor
	chunker    domain.Chunker
	retriever  domain.Retriever
	composer   domain.Composer
	summarizer domain.Summarizer
	settings   Settings
	logger     *slog.Logger
}

func NewRAGService(extractor domain.Extractor, chunker domain.Chunker, retriever domain.Retriever, composer domain.Composer, summarizer domain.Summarizer, settings Settings, logger *slog.Logger) *RAGServiceImpl {
	if settings.TopK <= 0 {
		settings.TopK = 5
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RAGServiceImpl{
		extractor:  extractor,
		chunker:    chunker,
		retriever:  retriever,
		composer:   composer,
		summarizer: summarizer,
		settings:   settings,
		logger:     logger,
	}
}

// Capabilities reports which optional extraction backends are live.
func (s *RAGServiceImpl) Capabilities() domain.Capabilities {
	return s.extractor.Capabilities()
}

// Upload indexes batch as the new corpus of st, discarding the previous
// one, and returns the previews of the new corpus.
func (s *RAGServiceImpl) Upload(st *SessionState, batch []domain.Upload) []domain.Preview {
	st.mu.Lock()
	defer st.mu.Unlock()
	s.reindex(st, batch)
	return s.previews(st)
}

// UploadPaths reads files from disk and uploads them as one batch.
func (s *RAGServiceImpl) UploadPaths(st *SessionState, paths []string) ([]domain.Preview, error) {
	batch, err := loader.Load(paths, s.settings.Extensions)
	if err != nil {
		return nil, err
	}
	return s.Upload(st, batch), nil
}

func (s *RAGServiceImpl) reindex(st *SessionState, batch []domain.Upload) {
	docs := make([]domain.UploadedDocument, 0, len(batch))
	chunks := 0
	for _, u := range batch {
		ex := s.extractor.Extract(u.Name, u.Data)
		doc := domain.UploadedDocument{
			Name:       u.Name,
			Format:     ex.Format,
			Text:       ex.Text,
			Chunks:     s.chunker.Chunk(ex.Text),
			Degraded:   ex.Degraded,
			ExtractErr: ex.Err,
		}
		chunks += len(doc.Chunks)
		docs = append(docs, doc)
	}
	st.Corpus.Replace(docs)
	s.logger.Info("corpus reindexed", "session", st.ID, "documents", len(docs), "chunks", chunks)
}

// Ask answers query from the corpus of st and records the exchange.
func (s *RAGServiceImpl) Ask(st *SessionState, query string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	answer := NoCorpusMessage
	if st.Corpus.Len() > 0 {
		matches := s.retriever.Retrieve(st.Corpus, query, s.settings.TopK)
		s.logger.Debug("query answered", "session", st.ID, "matches", len(matches))
		answer = s.composer.Compose(matches, query)
	}
	st.record(query, answer)
	return answer
}

// Previews describes every indexed document of st.
func (s *RAGServiceImpl) Previews(st *SessionState) []domain.Preview {
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.previews(st)
}

func (s *RAGServiceImpl) previews(st *SessionState) []domain.Preview {
	docs := st.Corpus.Documents()
	out := make([]domain.Preview, 0, len(docs))
	for _, d := range docs {
		out = append(out, preview(d))
	}
	return out
}

func preview(d domain.UploadedDocument) domain.Preview {
	p := domain.Preview{Name: d.Name, ChunkCount: len(d.Chunks)}
	if d.Degraded || d.Text == "" {
		p.Text = PreviewPlaceholder
		p.Reason = "no text extracted"
		if d.ExtractErr != nil {
			p.Reason = d.ExtractErr.Error()
		}
		return p
	}
	p.Available = true
	p.Text = headChars(d.Text, previewMaxChars)
	return p
}

// Summarize summarizes the document called name, or the whole corpus when
// name is empty, and records the exchange.
func (s *RAGServiceImpl) Summarize(st *SessionState, name string) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	docs := st.Corpus.Documents()
	if len(docs) == 0 {
		return "", ErrNoCorpus
	}
	subject := "all uploaded files"
	var texts []string
	for _, d := range docs {
		if name == "" {
			texts = append(texts, d.Text)
			continue
		}
		if d.Name == name {
			subject = name
			texts = []string{d.Text}
			break
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}
	summary, err := s.summarizer.Summarize(strings.Join(texts, "\n"), s.settings.SummaryMaxSentences)
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", subject, err)
	}
	answer := fmt.Sprintf("Summary of %s:\n\n%s", subject, summary)
	st.record("Summarize "+subject, answer)
	return answer, nil
}

func headChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
