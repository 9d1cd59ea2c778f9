package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command result label values
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultReplay   = "replay"
	ResultConflict = "conflict"
)

var (
	// CommandsTotal counts command executions by request path and result
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookie_commands_total",
		Help: "Command executions by request path and result",
	}, []string{"path", "result"})

	// OutboxAppendsTotal counts events recorded on the transactional outbox
	OutboxAppendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookie_outbox_appends_total",
		Help: "Events recorded on the transactional outbox by event type",
	}, []string{"event_type"})
)
