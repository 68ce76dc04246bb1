package telemetry

import (
	"context"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys. Kept low cardinality: route patterns and method
// names only, never raw paths or IDs.
const (
	ProfilingLabelMethod  = "method"
	ProfilingLabelRoute   = "route"
	ProfilingLabelHandler = "handler"
)

// WithProfilingLabels runs fn with the given Pyroscope labels attached to
// the context. Samples collected while fn runs carry the labels.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	if len(labels) == 0 {
		fn(ctx)
		return
	}

	kv := make([]string, 0, len(labels)*2)
	for k, v := range labels {
		kv = append(kv, k, v)
	}

	pyroscope.TagWrapper(ctx, pyroscope.Labels(kv...), fn)
}
