package knowledge

// Source labels identifying which corpus a document came from.
const (
	// SourceHandbook marks curated support handbook articles.
	SourceHandbook = "handbook"

	// SourceCommunity marks imported community Q&A replies.
	SourceCommunity = "community"
)

// VectorDimension is the embedding dimensionality used by the pgvector
// schema. text-embedding-004 output is truncated to this size.
const VectorDimension int32 = 768

// Document is one knowledge base entry. Documents are created and updated by
// ingestion jobs and are read-only to the query pipeline.
type Document struct {
	ID      int64
	Title   *string // nullable in both corpora
	Content string
	Source  string
}

// Match is a Document plus its cosine similarity to a query vector.
// Higher is closer. Matches are produced transiently per query and never
// persisted.
type Match struct {
	Document
	Similarity float64
}

// Reply is one community reply record as read from the bulk import file.
type Reply struct {
	PostTitle       string `json:"postTitle"`
	PostDescription string `json:"postDescription"`
	Author          string `json:"author"`
	Reply           string `json:"reply"`
}
