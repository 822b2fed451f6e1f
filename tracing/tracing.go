// Package tracing 提供基于 OpenTelemetry 的链路追踪：初始化 OTLP 导出，
// 以及 LCA 操作统一的 Span 命名、属性键与错误记录方式。
package tracing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wyfcoding/treelca/config"
	"github.com/wyfcoding/treelca/xerrors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/wyfcoding/treelca"
	spanPrefix          = "lca."
)

// LCA Span 使用的属性键。
const (
	KeyStrategy  = attribute.Key("lca.strategy")
	KeyNodes     = attribute.Key("lca.nodes")
	KeyQueries   = attribute.Key("lca.queries")
	KeyErrorCode = attribute.Key("lca.error.code")
	KeyErrorType = attribute.Key("lca.error.type")
)

// Strategy 返回策略名属性。
func Strategy(s string) attribute.KeyValue { return KeyStrategy.String(s) }

// Nodes 返回树规模属性。
func Nodes(n int) attribute.KeyValue { return KeyNodes.Int(n) }

// Queries 返回批次大小属性。
func Queries(n int) attribute.KeyValue { return KeyQueries.Int(n) }

// InitTracer 初始化 OTLP gRPC 导出的 TracerProvider 并设为全局实例。
// 未启用追踪时不做任何改动，全局 TracerProvider 保持 noop。
func InitTracer(cfg config.TracingConfig, version string) (shutdown func(context.Context) error, err error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	ctx := context.Background()
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Info("tracer provider initialized", "service", cfg.ServiceName, "version", version, "endpoint", cfg.OTLPEndpoint)
	return tp.Shutdown, nil
}

// StartOperation 以 "lca.<op>" 命名开启一个 Span，调用者负责 End。
//
//nolint:spancheck // 生命周期由调用方管理.
func StartOperation(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, spanPrefix+op, trace.WithAttributes(attrs...))
}

// RecordError 把错误记录到 span 并标记为失败；带错误码的错误额外附加码与类别。
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}

	var xe *xerrors.Error
	if errors.As(err, &xe) {
		span.SetAttributes(KeyErrorCode.Int(xe.Code), KeyErrorType.String(xe.Type.String()))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceID 返回当前链路的追踪 ID，不存在时返回空串.
func TraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}
	return ""
}
