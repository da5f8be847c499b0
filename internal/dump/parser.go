package dump

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/tdump-analysis/pkg/filter"
	"github.com/tdump-analysis/pkg/model"
)

// ParserOptions holds configuration options for the dump parser.
type ParserOptions struct {
	// Filter normalizes frame lines as they are parsed. Nil means no-op.
	Filter *filter.FrameFilter

	// StrictMode fails on quoted lines that do not parse as headers
	// instead of skipping them.
	StrictMode bool
}

// DefaultParserOptions returns default parser options.
func DefaultParserOptions() *ParserOptions {
	return &ParserOptions{
		Filter:     filter.NoopFilter(),
		StrictMode: false,
	}
}

// Parser parses one thread-dump snapshot into thread records.
type Parser struct {
	opts *ParserOptions
}

// NewParser creates a new thread-dump parser.
func NewParser(opts *ParserOptions) *Parser {
	if opts == nil {
		opts = DefaultParserOptions()
	}
	if opts.Filter == nil {
		opts.Filter = filter.NoopFilter()
	}
	return &Parser{opts: opts}
}

// Parse scans the snapshot text line by line and produces the ordered
// sequence of thread records. A header opens a record, frame lines append
// to it, and the next header (or end of input) closes it. Text that never
// matches a header yields zero records without error; a header with no
// frames yields a record with an empty stack.
func (p *Parser) Parse(ctx context.Context, reader io.Reader, snapshotIndex int) ([]model.ThreadRecord, error) {
	records := make([]model.ThreadRecord, 0)
	var current *model.ThreadRecord
	stateSet := false

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lineNum++
		line := scanner.Text()
		c := classifyLine(line)

		switch c.kind {
		case lineHeader:
			if current != nil {
				records = append(records, *current)
			}
			current = &model.ThreadRecord{
				Name:          c.name,
				ID:            c.id,
				State:         c.hint,
				Frames:        make([]model.StackFrame, 0, 8),
				SnapshotIndex: snapshotIndex,
			}
			stateSet = false

		case lineState:
			if current != nil && !stateSet {
				current.State = c.state
				stateSet = true
			}

		case lineFrame:
			if current != nil {
				current.Frames = append(current.Frames, p.buildFrame(c.frame))
			}

		default:
			if p.opts.StrictMode && len(line) > 0 && line[0] == '"' {
				return nil, fmt.Errorf("line %d: malformed thread header", lineNum)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot text: %w", err)
	}

	if current != nil {
		records = append(records, *current)
	}

	return records, nil
}

// buildFrame normalizes a raw frame line through the active filter.
// Dropped frames keep their raw text with an empty normalized form.
func (p *Parser) buildFrame(raw string) model.StackFrame {
	normalized, kept := p.opts.Filter.Normalize(raw)
	if !kept {
		normalized = ""
	}
	return model.StackFrame{Raw: raw, Normalized: normalized}
}
