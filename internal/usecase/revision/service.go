// Package revision renders the edit history of a question or answer,
// newest first, each revision diffed against its predecessor.
package revision

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"forum-reader/internal/domain/entity"
	"forum-reader/internal/observability/tracing"
	"forum-reader/internal/repository"
)

var (
	// ErrNoHistory indicates that the node has no revisions, which means
	// it does not exist.
	ErrNoHistory = fmt.Errorf("revisions %w", entity.ErrNotFound)

	// ErrUnknownNodeType indicates a node type other than question or answer.
	ErrUnknownNodeType = fmt.Errorf("node type %w", entity.ErrNotFound)
)

// Renderer turns a revision into display HTML.
type Renderer interface {
	Render(rev *entity.Revision) (string, error)
}

// Differ annotates the changes between two HTML fragments.
type Differ interface {
	Diff(a, b string) (string, error)
}

// Entry is one rendered revision.
type Entry struct {
	Revision *entity.Revision
	HTML     string
	// Diff is HTML for the first revision and the annotated change from
	// the previous revision otherwise.
	Diff    string
	Summary string
}

// Service renders revision histories.
type Service struct {
	Revisions repository.RevisionRepository
	Renderer  Renderer
	Differ    Differ
}

// ParseNode builds a node reference from a route's type segment.
func ParseNode(kind string, id int64) (entity.NodeRef, error) {
	switch t := entity.NodeType(kind); t {
	case entity.NodeQuestion, entity.NodeAnswer:
		return entity.NodeRef{Type: t, ID: id}, nil
	default:
		return entity.NodeRef{}, fmt.Errorf("%w: %q", ErrUnknownNodeType, kind)
	}
}

// History renders every revision of node. Diffs are computed oldest
// first; the result is newest first. Render and diff failures are
// returned as they are.
func (s *Service) History(ctx context.Context, node entity.NodeRef) ([]Entry, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "revision.History")
	defer span.End()
	start := time.Now()

	revs, err := s.Revisions.ListByNode(ctx, node)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("list revisions of %s %d: %w", node.Type, node.ID, err)
	}
	if len(revs) == 0 {
		return nil, fmt.Errorf("%w: %s %d", ErrNoHistory, node.Type, node.ID)
	}

	entries, err := s.render(revs)
	if err != nil {
		recordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("revision.node_type", string(node.Type)),
		attribute.Int("revision.count", len(entries)),
	)
	recordHistory(node.Type, len(entries), time.Since(start))
	return entries, nil
}

func (s *Service) render(revs []*entity.Revision) ([]Entry, error) {
	entries := make([]Entry, 0, len(revs))
	var prev string
	for i, rev := range revs {
		html, err := s.Renderer.Render(rev)
		if err != nil {
			return nil, fmt.Errorf("render revision %d: %w", rev.Number, err)
		}
		diff := html
		if i > 0 {
			if diff, err = s.Differ.Diff(prev, html); err != nil {
				return nil, fmt.Errorf("diff revision %d: %w", rev.Number, err)
			}
		}
		entries = append(entries, Entry{Revision: rev, HTML: html, Diff: diff, Summary: summary(rev)})
		prev = html
	}
	slices.Reverse(entries)
	return entries, nil
}

func summary(rev *entity.Revision) string {
	if rev.Summary != "" {
		return rev.Summary
	}
	return "Revision " + strconv.Itoa(rev.Number)
}
