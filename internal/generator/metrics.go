package generator

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tripcraft/tripcraft/internal/llm"
)

var outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tripcraft",
	Subsystem: "generator",
	Name:      "requests_total",
	Help:      "Generator invocations by generator and outcome.",
}, []string{"generator", "outcome"})

// Outcome classifies a generator error for metrics and logs.
func Outcome(err error) string {
	var (
		input      *InputError
		upstream   *llm.UpstreamError
		parse      *ParseError
		validation *ValidationError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &input):
		return "input_error"
	case errors.As(err, &upstream):
		return "upstream_error"
	case errors.As(err, &parse):
		return "parse_error"
	case errors.As(err, &validation):
		return "validation_error"
	}
	return "error"
}

// Observe counts one invocation of the named generator.
func Observe(generator string, err error) {
	outcomes.WithLabelValues(generator, Outcome(err)).Inc()
}
