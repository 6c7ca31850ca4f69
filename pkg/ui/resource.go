package ui

// Resource is a self-contained rendered document delivered as tool-call
// output. It has no identity beyond its logical uri; every render produces a
// new immutable instance that supersedes the previous one wholesale.
type Resource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// Embedded wraps a Resource in the embedding envelope a client expects
// inside a tool result.
type Embedded struct {
	Type     string   `json:"type"`
	Resource Resource `json:"resource"`
}
