package telemetry

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/vgren/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor by logging finished spans.
// It is silent until verbose output is enabled.
type Bridge struct {
	logger  ports.Logger
	verbose atomic.Bool
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// SetVerbose toggles span logging.
func (b *Bridge) SetVerbose(verbose bool) {
	b.verbose.Store(verbose)
}

// OnStart does nothing.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration, attributes and failure status.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !b.verbose.Load() || !s.SpanContext().IsValid() {
		return
	}

	parts := []string{fmt.Sprintf("%s %s", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Millisecond))}

	attrs := make([]string, 0, len(s.Attributes()))
	for _, kv := range s.Attributes() {
		attrs = append(attrs, string(kv.Key)+"="+kv.Value.Emit())
	}
	slices.Sort(attrs)
	parts = append(parts, attrs...)

	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "failed"
		}
		b.logger.Warn(strings.Join(parts, " ") + ": " + firstLine(desc))
		return
	}
	b.logger.Info(strings.Join(parts, " "))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
