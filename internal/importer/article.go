// Package importer converts externally-sourced articles into populated
// livingdocs. Structural blocks map to components synchronously in input
// order; media assets fan out to the asset-processing service concurrently
// and fan back in strictly by original index.
package importer

import "time"

// Article is the external payload handed to a transformation: ordered text
// blocks, ordered media references, and provider metadata.
type Article struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Blocks   []Block    `json:"blocks"`
	Assets   []AssetRef `json:"assets"`
	Provider Provider   `json:"provider"`
}

// Block is one free text block in document order. HTML markup is allowed
// and carried into rich-text directives.
type Block struct {
	HTML string `json:"html"`
}

// AssetRef points at an unprocessed media asset at the provider.
type AssetRef struct {
	SourceURL string `json:"sourceUrl"`
	Caption   string `json:"caption"`
}

// Provider carries the source-system metadata extracted into the
// configured metadata namespace.
type Provider struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Urgency   int       `json:"urgency"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Keywords  []string  `json:"keywords"`
}
