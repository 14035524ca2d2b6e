// Package document provides the component tree model: an ordered tree of
// typed, directive-bearing components bound to exactly one design, plus the
// Livingdoc aggregate built on top of it.
package document

import "github.com/conneroisu/caxton/internal/design"

// MediaReference describes a processed media asset as returned by the
// asset-processing service.
type MediaReference struct {
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// Content is a directive slot value. Exactly one of the payload fields is
// meaningful, selected by Kind.
type Content struct {
	Kind  design.ContentKind
	Text  string
	Media *MediaReference
	Value map[string]interface{}
}

// TextContent wraps a plain text value.
func TextContent(text string) Content {
	return Content{Kind: design.KindText, Text: text}
}

// RichTextContent wraps an HTML fragment.
func RichTextContent(html string) Content {
	return Content{Kind: design.KindRichText, Text: html}
}

// MediaContent wraps a processed media reference.
func MediaContent(ref MediaReference) Content {
	return Content{Kind: design.KindMediaReference, Media: &ref}
}

// StructuredContent wraps an arbitrary structured value.
func StructuredContent(value map[string]interface{}) Content {
	return Content{Kind: design.KindStructured, Value: value}
}
