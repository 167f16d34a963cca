package domain

// Upload is a single file of an upload batch as received from the shell.
type Upload struct {
	Name string
	Data []byte
}

// UploadedDocument is an indexed file: its extracted text and the chunks
// derived from it. It is never modified after indexing.
type UploadedDocument struct {
	Name   string
	Format Format
	Text   string
	Chunks []string
	// Degraded is set when the format backend produced nothing and Text is
	// the raw-byte rendering of the upload.
	Degraded   bool
	ExtractErr error
}

// Format is the extraction path chosen for a file.
type Format string

const (
	FormatPlainText Format = "text"
	FormatPDF       Format = "pdf"
	FormatDOCX      Format = "docx"
)

// Match is a chunk that shares at least one token with a query.
type Match struct {
	File       string
	ChunkText  string
	Score      int
	ChunkIndex int
}

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation transcript.
type Message struct {
	Role    Role
	Content string
}

// Preview is what the shell shows for an indexed document.
type Preview struct {
	Name       string
	ChunkCount int
	Text       string
	// Available is false when no preview could be extracted; Reason then
	// says why.
	Available bool
	Reason    string
}

// Capabilities reports which optional extraction backends are live.
type Capabilities struct {
	PDF  bool
	DOCX bool
}

// Extractor converts raw upload bytes into plain text.
type Extractor interface {
	Extract(name string, data []byte) Extraction
	Capabilities() Capabilities
}

// Extraction is the outcome of extracting one file. Err carries the cause
// when a backend failed and a fallback was applied; it is informational.
type Extraction struct {
	Text     string
	Format   Format
	Degraded bool
	Err      error
}

// Chunker splits text into retrieval units.
type Chunker interface {
	Chunk(text string) []string
}

// CorpusReader gives read access to the current corpus.
type CorpusReader interface {
	Documents() []UploadedDocument
}

// Retriever finds the chunks most relevant to a query.
type Retriever interface {
	Retrieve(corpus CorpusReader, query string, topK int) []Match
}

// Composer renders matches into an answer.
type Composer interface {
	Compose(matches []Match, query string) string
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
