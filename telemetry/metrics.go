// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the codec instruments.
type Metrics struct {
	packetsDecoded    metric.Int64Counter
	packetsEncoded    metric.Int64Counter
	bytesDecoded      metric.Int64Counter
	bytesEncoded      metric.Int64Counter
	errorsTotal       metric.Int64Counter
	propertiesDropped metric.Int64Counter
	packetSize        metric.Int64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error
	m.packetsDecoded, err = meter.Int64Counter(
		"mqtt.codec.packets.decoded",
		metric.WithDescription("Packets decoded by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create packetsDecoded counter: %w", err)
	}

	m.packetsEncoded, err = meter.Int64Counter(
		"mqtt.codec.packets.encoded",
		metric.WithDescription("Packets encoded by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create packetsEncoded counter: %w", err)
	}

	m.bytesDecoded, err = meter.Int64Counter(
		"mqtt.codec.bytes.decoded",
		metric.WithDescription("Bytes consumed by the decoder"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bytesDecoded counter: %w", err)
	}

	m.bytesEncoded, err = meter.Int64Counter(
		"mqtt.codec.bytes.encoded",
		metric.WithDescription("Bytes produced by the encoder"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bytesEncoded counter: %w", err)
	}

	m.errorsTotal, err = meter.Int64Counter(
		"mqtt.codec.errors",
		metric.WithDescription("Codec failures by operation and class"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create errorsTotal counter: %w", err)
	}

	m.propertiesDropped, err = meter.Int64Counter(
		"mqtt.codec.properties.dropped",
		metric.WithDescription("Property blocks dropped to fit a maximum packet size"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create propertiesDropped counter: %w", err)
	}

	m.packetSize, err = meter.Int64Histogram(
		"mqtt.codec.packet.size",
		metric.WithDescription("Encoded packet size distribution"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create packetSize histogram: %w", err)
	}

	return m, nil
}

// RecordDecoded records one successfully decoded packet.
func (m *Metrics) RecordDecoded(ctx context.Context, packetType string, size int) {
	attrs := metric.WithAttributes(attribute.String("type", packetType))
	m.packetsDecoded.Add(ctx, 1, attrs)
	m.bytesDecoded.Add(ctx, int64(size), attrs)
	m.packetSize.Record(ctx, int64(size), attrs)
}

// RecordEncoded records one successfully encoded packet.
func (m *Metrics) RecordEncoded(ctx context.Context, packetType string, size, dropped int) {
	attrs := metric.WithAttributes(attribute.String("type", packetType))
	m.packetsEncoded.Add(ctx, 1, attrs)
	m.bytesEncoded.Add(ctx, int64(size), attrs)
	if dropped > 0 {
		m.propertiesDropped.Add(ctx, int64(dropped), attrs)
	}
}

// RecordError records a failed decode or encode.
func (m *Metrics) RecordError(ctx context.Context, op, class string) {
	m.errorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("class", class),
	))
}
