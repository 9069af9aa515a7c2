package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "buttonpad"

var (
	TokensDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_decoded_total",
		Help:      "Valid button tokens read from the serial line.",
	})

	TokensDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_dropped_total",
		Help:      "Malformed or oversized tokens dropped by the decoder.",
	})

	PressesAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "presses_accepted_total",
		Help:      "Button presses let through by the rate limiter.",
	}, []string{"button"})

	PressesSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "presses_suppressed_total",
		Help:      "Button presses suppressed as rapid duplicates.",
	}, []string{"button"})

	CommandsLaunched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_launched_total",
		Help:      "Commands handed to the launcher, by result.",
	}, []string{"result"})

	ProfileSwitches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_switches_total",
		Help:      "Profile selections, by cycling or explicit request.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
