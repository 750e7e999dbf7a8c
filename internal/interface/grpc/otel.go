package grpcservice

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	traceExport "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func initOtelSDK(ctx context.Context, otelCollectorUrl string) (func(context.Context) error, error) {
	otelCollectorUrl = strings.TrimSuffix(otelCollectorUrl, "/")
	traceExp, err := traceExport.New(
		ctx,
		traceExport.WithEndpoint(strings.TrimPrefix(otelCollectorUrl, "http://")),
		traceExport.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("launchd"),
	)
	tp := trace.NewTracerProvider(
		trace.WithBatcher(traceExp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Info("initialized opentelemetry")

	return tp.Shutdown, nil
}
