package entity

import "time"

// NodeType distinguishes revisable documents.
type NodeType string

const (
	NodeQuestion NodeType = "question"
	NodeAnswer   NodeType = "answer"
)

// NodeRef identifies a revisable document.
type NodeRef struct {
	Type NodeType
	ID   int64
}

// Revision is one immutable entry of a document's edit history.
// Number is 1-based and increases with every edit.
type Revision struct {
	Node      NodeRef
	Number    int
	AuthorID  int64
	RevisedAt time.Time
	Title     string // Empty for answers
	Body      string // Markdown source
	Tags      []string
	Summary   string
}
