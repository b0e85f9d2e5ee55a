package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "qoro"

// StartTurnSpan starts a span for a conversational turn.
func StartTurnSpan(ctx context.Context, conversationID, userID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "pulse.turn",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("user.id", userID),
		),
	)
}

// StartToolCallSpan starts a span for a tool call within a turn.
func StartToolCallSpan(ctx context.Context, callID, tool string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "pulse.toolcall",
		trace.WithAttributes(
			attribute.String("toolcall.id", callID),
			attribute.String("toolcall.tool", tool),
		),
	)
}

// StartGenerateSpan starts a span for one model generation call.
func StartGenerateSpan(ctx context.Context, round int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "pulse.generate",
		trace.WithAttributes(
			attribute.Int("generate.round", round),
		),
	)
}
