// Package parataskotel adapts paratask.Hooks to OpenTelemetry tracing, so a
// caller can observe chunk planning and task spawn/join as spans without the
// core paratask package depending on the tracing SDK directly.
//
// One span is opened per operation (from OnChunkPlan) and one child span per
// spawned task (from OnSpawn); child spans are ended from OnJoin in the same
// order they were opened, which holds because every paratask dispatch path
// joins its spawned tasks in exactly the order it spawned them. The root span
// ends itself once every spawned child has been joined, since no operation
// returns to its caller before that point.
package parataskotel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	paratask "github.com/joeycumines/go-paratask"
)

// Hooks implements paratask.Hooks by recording spans on tracer. The zero
// value is not usable; construct one with NewHooks.
type Hooks struct {
	tracer trace.Tracer

	mu      sync.Mutex
	root    trace.Span
	rootCtx context.Context
	queue   []trace.Span
}

// NewHooks returns a Hooks that records spans via tracer. Pass e.g.
// otel.Tracer("paratask") for the global TracerProvider, or a provider scoped
// to a single TracerProvider instance.
func NewHooks(tracer trace.Tracer) *Hooks {
	if tracer == nil {
		panic("parataskotel: NewHooks: nil tracer")
	}
	return &Hooks{tracer: tracer}
}

// OnChunkPlan starts the root span for the operation about to run.
func (h *Hooks) OnChunkPlan(length, chunkCount int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx, span := h.tracer.Start(context.Background(), "paratask.operation", trace.WithAttributes(
		attribute.Int("paratask.length", length),
		attribute.Int("paratask.chunk_count", chunkCount),
	))
	h.root = span
	h.rootCtx = ctx
	h.queue = h.queue[:0]
}

// OnSpawn starts a child span for a task about to be placed on pool.
func (h *Hooks) OnSpawn(pool paratask.Pool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.root == nil {
		return
	}
	_, span := h.tracer.Start(h.rootCtx, "paratask.task", trace.WithAttributes(
		attribute.String("paratask.pool", pool.String()),
	))
	h.queue = append(h.queue, span)
}

// OnJoin ends the oldest still-open child span, recording err on it if
// non-nil. Once every child span opened for the current operation has been
// ended, the root span ends too.
func (h *Hooks) OnJoin(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return
	}
	span := h.queue[0]
	h.queue = h.queue[1:]
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	if len(h.queue) == 0 && h.root != nil {
		h.root.End()
		h.root = nil
	}
}
