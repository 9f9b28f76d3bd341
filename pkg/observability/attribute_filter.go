package observability

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// exportedPrefixes are the span attribute namespaces ghpulse emits.
var exportedPrefixes = []string{
	"ghpulse.",
	"github.",
	"http.",
	"url.",
	"mcp.",
	"error",
}

// strippedKeys never leave the process even though their namespace is exported.
var strippedKeys = map[string]bool{
	"http.request.header.authorization": true,
	"http.request.header.cookie":        true,
	"http.response.header.set-cookie":   true,
}

// attributeFilter drops span attributes outside the exported namespaces before
// they reach the delegate processor.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
}

// NewAttributeFilter wraps delegate so exported spans only carry ghpulse's own
// attribute namespaces.
func NewAttributeFilter(delegate sdktrace.SpanProcessor) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate}
}

func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

// OnEnd hands the delegate a filtered view of the finished span.
func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s})
}

func (f *attributeFilter) Shutdown(ctx context.Context) error {
	err := f.delegate.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	err := f.delegate.ForceFlush(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

// exportable reports whether an attribute key may be exported.
func exportable(key string) bool {
	if strippedKeys[strings.ToLower(key)] {
		return false
	}

	for _, prefix := range exportedPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}

	return false
}

type filteredSpan struct {
	sdktrace.ReadOnlySpan
}

func (s *filteredSpan) Attributes() []attribute.KeyValue {
	orig := s.ReadOnlySpan.Attributes()
	kept := make([]attribute.KeyValue, 0, len(orig))

	for _, kv := range orig {
		if exportable(string(kv.Key)) {
			kept = append(kept, kv)
		}
	}

	return kept
}
