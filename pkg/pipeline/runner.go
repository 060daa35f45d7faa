package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bridges/pkg/document"
	"github.com/matzehuels/bridges/pkg/observability"
	"github.com/matzehuels/bridges/pkg/publish"
)

// Runner executes the assemble → deliver pipeline.
//
// The Runner keeps no per-run state; multiple goroutines can share one.
type Runner struct {
	Publisher publish.Publisher
	Logger    *log.Logger
}

// NewRunner creates a runner delivering through p.
// If logger is nil, log.Default() is used.
func NewRunner(p publish.Publisher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Publisher: p, Logger: logger}
}

// Execute assembles and delivers one visualization.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if r.Publisher == nil {
		return nil, fmt.Errorf("no publisher configured")
	}

	result := &Result{}

	// Stage 1: Assemble
	doc, dur, err := r.assemble(ctx, opts.Metadata, opts.Container)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Document = doc
	result.Stats.AssembleTime = dur
	result.Stats.NodeCount, result.Stats.LinkCount = Counts(doc)

	r.Logger.Info("assembled document",
		"visual", doc.Visual(),
		"nodes", result.Stats.NodeCount,
		"links", result.Stats.LinkCount,
		"duration", dur)

	// Stage 2: Deliver
	receipt, err := r.Deliver(ctx, doc, opts.Destination)
	if err != nil {
		return nil, fmt.Errorf("deliver: %w", err)
	}
	result.Receipt = receipt
	result.Stats.Bytes = receipt.Bytes
	result.Stats.DeliverTime = receipt.Duration

	return result, nil
}

// Assemble runs only the first stage, with hooks and logging.
func (r *Runner) Assemble(ctx context.Context, meta Metadata, c Container) (document.Document, error) {
	doc, _, err := r.assemble(ctx, meta, c)
	return doc, err
}

func (r *Runner) assemble(ctx context.Context, meta Metadata, c Container) (document.Document, time.Duration, error) {
	if c == nil {
		_, err := Assemble(meta, c)
		return nil, 0, err
	}
	hooks := observability.Pipeline()
	visual := c.Visual()

	hooks.OnAssembleStart(ctx, visual, nodeCount(c))
	start := time.Now()
	doc, err := Assemble(meta, c)
	dur := time.Since(start)
	hooks.OnAssembleComplete(ctx, visual, dur, err)
	return doc, dur, err
}

// Deliver runs only the second stage, with hooks and logging.
func (r *Runner) Deliver(ctx context.Context, doc document.Document, dest publish.Destination) (publish.Receipt, error) {
	hooks := observability.Pipeline()
	name := r.Publisher.Name()

	hooks.OnDeliverStart(ctx, name, dest.Assignment)
	r.Logger.Debug("delivering document", "publisher", name, "destination", dest.Key())
	start := time.Now()
	receipt, err := r.Publisher.Deliver(ctx, doc, dest)
	dur := time.Since(start)
	hooks.OnDeliverComplete(ctx, name, dest.Assignment, receipt.Bytes, dur, err)
	if err != nil {
		r.Logger.Error("delivery failed", "publisher", name, "destination", dest.Key(), "error", err)
		return publish.Receipt{}, err
	}
	if receipt.Duration == 0 {
		receipt.Duration = dur
	}

	r.Logger.Info("delivered document",
		"publisher", receipt.Publisher,
		"location", receipt.Location,
		"bytes", receipt.Bytes,
		"cached", receipt.Cached,
		"duration", receipt.Duration)
	return receipt, nil
}

// nodeCount reports the container's size when it exposes one.
func nodeCount(c Container) int {
	if l, ok := c.(interface{ Len() int }); ok {
		return l.Len()
	}
	return -1
}
