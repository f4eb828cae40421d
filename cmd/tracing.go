package cmd

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// InitPropagation 注册 W3C trace context 传播器，kafka 消息头据此携带 trace。
// 未安装 exporter 时 tracer 为 no-op。
func InitPropagation() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}
