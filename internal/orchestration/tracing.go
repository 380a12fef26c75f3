package orchestration

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("mcspeed.orchestration")

func startSearchSpan(ctx context.Context, name, runID string, req Request) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Float64("interval.a", req.A),
			attribute.Float64("interval.b", req.B),
			attribute.Int("samples", req.Samples),
			attribute.Float64("speedup.target", req.TargetSpeedup),
			attribute.Int("threads.max", req.MaxThreads),
		),
	)
}

func startProbeSpan(ctx context.Context, kind ProbeKind, threads int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Controller.probe",
		trace.WithAttributes(
			attribute.String("probe.kind", string(kind)),
			attribute.Int("probe.threads", threads),
		),
	)
}

func setSearchSpanResult(span trace.Span, outcome SearchOutcome) {
	span.SetAttributes(
		attribute.Int("best.threads", outcome.Best.Threads),
		attribute.Float64("speedup.achieved", outcome.AchievedSpeedup),
		attribute.Bool("speedup.met_target", outcome.MetTarget),
		attribute.Int("probes", len(outcome.Probes)),
	)
}

func endSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
