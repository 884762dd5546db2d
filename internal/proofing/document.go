// Package proofing implements the work carried by jobs: proofreading the
// section contents of a submitted work order.
package proofing

import (
	"bytes"
	"encoding/json"
)

// Flag values recorded on the result document
const (
	FlagProofed  = "Proofed"
	FlagOriginal = "Original"
)

// Section is one proofable record of a work order
type Section struct {
	RecordID string `json:"recordId"`
	Content  string `json:"content"`
}

// Document is the submitted work-order payload. The result document mirrors
// it, with proofed contents and the status flag filled in.
type Document struct {
	WorkOrderID string    `json:"workOrderId"`
	ContentType string    `json:"contentType"`
	Status      string    `json:"status,omitempty"`
	Sections    []Section `json:"sectionContents"`
}

// parseDocument decodes a submitted document. An empty body yields an empty
// document rather than an error, so bare submissions still produce a result.
func parseDocument(input []byte) (Document, error) {
	var doc Document
	if len(bytes.TrimSpace(input)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(input, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}
