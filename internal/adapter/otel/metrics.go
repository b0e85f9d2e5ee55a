package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "qoro"

// Metrics holds all Pulse metric instruments.
type Metrics struct {
	TurnsStarted   metric.Int64Counter
	TurnsCompleted metric.Int64Counter
	TurnsFailed    metric.Int64Counter
	ToolCalls      metric.Int64Counter
	ToolFailures   metric.Int64Counter
	TurnDuration   metric.Float64Histogram
	ToolRounds     metric.Int64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TurnsStarted, err = meter.Int64Counter("qoro.pulse.turns.started",
		metric.WithDescription("Number of conversational turns started"))
	if err != nil {
		return nil, err
	}

	m.TurnsCompleted, err = meter.Int64Counter("qoro.pulse.turns.completed",
		metric.WithDescription("Number of conversational turns completed"))
	if err != nil {
		return nil, err
	}

	m.TurnsFailed, err = meter.Int64Counter("qoro.pulse.turns.failed",
		metric.WithDescription("Number of conversational turns failed"))
	if err != nil {
		return nil, err
	}

	m.ToolCalls, err = meter.Int64Counter("qoro.pulse.toolcalls",
		metric.WithDescription("Number of tool invocations"))
	if err != nil {
		return nil, err
	}

	m.ToolFailures, err = meter.Int64Counter("qoro.pulse.toolcalls.failed",
		metric.WithDescription("Number of failed tool invocations"))
	if err != nil {
		return nil, err
	}

	m.TurnDuration, err = meter.Float64Histogram("qoro.pulse.turn.duration_seconds",
		metric.WithDescription("Turn duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.ToolRounds, err = meter.Int64Histogram("qoro.pulse.turn.tool_rounds",
		metric.WithDescription("Tool rounds per turn"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
