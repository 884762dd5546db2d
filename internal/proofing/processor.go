package proofing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/workproof/jobsvc/internal/job"
)

// Processor proofs every section of a submitted work order and produces the
// result document
type Processor struct {
	proofreader Proofreader
	logger      *slog.Logger
}

// NewProcessor creates a processor backed by the given proofreader
func NewProcessor(proofreader Proofreader, logger *slog.Logger) *Processor {
	return &Processor{
		proofreader: proofreader,
		logger:      logger,
	}
}

// Process parses the input document, proofs each section and returns the
// mirrored document with the status flag set. A document that cannot be parsed
// is a business failure; proofreader dependency errors propagate unchanged so
// the delivery can be retried.
func (p *Processor) Process(ctx context.Context, j *job.Job, input []byte) (json.RawMessage, error) {
	doc, err := parseDocument(input)
	if err != nil {
		return nil, fmt.Errorf("invalid input document: %w", err)
	}

	if doc.WorkOrderID == "" {
		doc.WorkOrderID = j.WorkOrderID
	}
	if doc.ContentType == "" {
		doc.ContentType = "Unknown"
	}

	out := Document{
		WorkOrderID: doc.WorkOrderID,
		ContentType: doc.ContentType,
		Status:      FlagOriginal,
		Sections:    make([]Section, 0, len(doc.Sections)),
	}

	changed := false
	seen := map[string]int{}

	for _, sec := range doc.Sections {
		recordID := strings.TrimSpace(sec.RecordID)
		content := strings.TrimSpace(sec.Content)
		if recordID == "" || content == "" {
			p.logger.Warn("Skipping section with missing recordId or content",
				slog.String("job_id", j.JobID),
				slog.String("work_order_id", doc.WorkOrderID),
			)
			continue
		}

		proofed, err := p.proofreader.Proof(ctx, recordID, content)
		if err != nil {
			return nil, err
		}
		if proofed != content {
			changed = true
		}

		// Last entry wins when a record id repeats
		if idx, ok := seen[recordID]; ok {
			out.Sections[idx] = Section{RecordID: recordID, Content: proofed}
			continue
		}
		seen[recordID] = len(out.Sections)
		out.Sections = append(out.Sections, Section{RecordID: recordID, Content: proofed})
	}

	if changed {
		out.Status = FlagProofed
	}

	p.logger.Info("Work order proofed",
		slog.String("job_id", j.JobID),
		slog.String("work_order_id", out.WorkOrderID),
		slog.String("status", out.Status),
		slog.Int("sections", len(out.Sections)),
	)

	body, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result document: %w", err)
	}
	return body, nil
}
