// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"errors"

	"github.com/absmach/mqttwire/core/packets"
	v5 "github.com/absmach/mqttwire/core/packets/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Error classes reported in the "class" attribute.
const (
	ClassNeedMoreData   = "need_more_data"
	ClassMalformed      = "malformed"
	ClassEncodeRange    = "encode_range"
	ClassPacketTooLarge = "packet_too_large"
	ClassOther          = "other"
)

// ErrorClass maps a codec error to its class name.
func ErrorClass(err error) string {
	switch {
	case errors.Is(err, packets.ErrNeedMoreData):
		return ClassNeedMoreData
	case errors.Is(err, packets.ErrMalformedPacket):
		return ClassMalformed
	case errors.Is(err, packets.ErrEncodeRange):
		return ClassEncodeRange
	case errors.Is(err, packets.ErrPacketTooLarge):
		return ClassPacketTooLarge
	default:
		return ClassOther
	}
}

// Codec wraps a v5.Decoder and the encoder with metrics and spans.
type Codec struct {
	dec     v5.Decoder
	metrics *Metrics
	tracer  trace.Tracer
}

// NewCodec returns a Codec decoding with d.
func NewCodec(d v5.Decoder, m *Metrics, tracer trace.Tracer) *Codec {
	return &Codec{dec: d, metrics: m, tracer: tracer}
}

// Decoder returns the wrapped decoder.
func (c *Codec) Decoder() v5.Decoder {
	return c.dec
}

// Decode is v5.Decoder.Decode with instrumentation. Incomplete input is
// not counted as an error.
func (c *Codec) Decode(ctx context.Context, buf []byte) (v5.Packet, int, error) {
	pkt, n, err := c.dec.Decode(buf)
	if err != nil {
		if !errors.Is(err, packets.ErrNeedMoreData) {
			c.Fail(ctx, "decode", err)
		}
		return nil, 0, err
	}
	c.Observe(ctx, pkt, n)
	return pkt, n, nil
}

// Observe records a packet decoded elsewhere, such as by a v5.Scanner.
func (c *Codec) Observe(ctx context.Context, pkt v5.Packet, size int) {
	c.metrics.RecordDecoded(ctx, packets.TypeName(pkt.Type()), size)
}

// Fail records err against op and returns its class.
func (c *Codec) Fail(ctx context.Context, op string, err error) string {
	class := ErrorClass(err)
	c.metrics.RecordError(ctx, op, class)
	return class
}

// Encode is v5.EncodeWithStats with a span and metrics.
func (c *Codec) Encode(ctx context.Context, pkt v5.Packet, maxPacketSize uint32) ([]byte, error) {
	name := packets.TypeName(pkt.Type())
	_, span := c.tracer.Start(ctx, "mqtt.encode", trace.WithAttributes(
		attribute.String("mqtt.packet.type", name),
		attribute.Int64("mqtt.max_packet_size", int64(maxPacketSize)),
	))
	defer span.End()

	b, stats, err := v5.EncodeWithStats(pkt, maxPacketSize)
	if err != nil {
		class := c.Fail(ctx, "encode", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, class)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("mqtt.packet.size", stats.Size),
		attribute.Int("mqtt.properties.dropped", stats.Discarded),
	)
	c.metrics.RecordEncoded(ctx, name, stats.Size, stats.Discarded)
	return b, nil
}
