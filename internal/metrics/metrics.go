// Package metrics exports the gateway's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the gateway collectors so handlers receive an explicit
// dependency instead of touching package-level state.
type Metrics struct {
	ToolRequests    *prometheus.CounterVec
	ProviderErrors  *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	PromptTokens    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ToolRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_tool_requests_total",
			Help: "Requests handled per tool, labelled by outcome status code.",
		}, []string{"tool", "status"}),
		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_provider_errors_total",
			Help: "Provider call failures by provider and normalized status.",
		}, []string{"provider", "status"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_provider_call_seconds",
			Help:    "Wall-clock duration of provider calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		PromptTokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_prompt_tokens_total",
			Help: "Prompt tokens submitted per tool, counted with cl100k_base.",
		}, []string{"tool"}),
	}
}
