package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TriggersReceived = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automation_triggers_total",
	Help: "Inbound trigger calls by outcome.",
}, []string{"outcome"})

var ExecutionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automation_executions_total",
	Help: "Executions finalized by terminal status.",
}, []string{"status"})

var ActionsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "automation_actions_total",
	Help: "Action attempts by kind and outcome.",
}, []string{"type", "outcome"})
