// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/absmach/mqttwire/core/packets"
	v5 "github.com/absmach/mqttwire/core/packets/v5"
	"github.com/absmach/mqttwire/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func newInspector(t *testing.T, d v5.Decoder) *inspector {
	t.Helper()

	m, err := telemetry.NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return &inspector{
		codec:  telemetry.NewCodec(d, m, tracenoop.NewTracerProvider().Tracer("test")),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func encodeAll(t *testing.T, pkts ...v5.Packet) []byte {
	t.Helper()

	var buf bytes.Buffer
	for _, p := range pkts {
		require.NoError(t, v5.WritePacket(&buf, p, 0))
	}
	return buf.Bytes()
}

func TestInspectorRun(t *testing.T) {
	stream := encodeAll(t,
		&v5.Connect{ClientID: "c1", CleanStart: true, KeepAlive: 30},
		&v5.ConnAck{},
		&v5.Publish{TopicName: "a/b", QoS: 1, ID: 1, Payload: []byte("hi")},
		&v5.PubAck{ID: 1},
		&v5.PingReq{},
		&v5.Disconnect{},
	)

	cases := []struct {
		desc    string
		data    []byte
		verify  bool
		packets int
		err     error
	}{
		{desc: "whole stream", data: stream, packets: 6},
		{desc: "verified stream", data: stream, verify: true, packets: 6},
		{desc: "truncated stream", data: stream[:len(stream)-1], packets: 5, err: io.ErrUnexpectedEOF},
		{desc: "malformed packet", data: append([]byte{0xC0, 0x00}, 0x00, 0x00), packets: 1, err: packets.ErrMalformedPacket},
		{desc: "empty", data: nil, packets: 0},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			in := newInspector(t, v5.DefaultDecoder)
			in.verify = tc.verify

			sum, err := in.run(context.Background(), bytes.NewReader(tc.data))
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.packets, sum.Packets)
			assert.Zero(t, sum.Mismatches)
		})
	}
}

func TestInspectorVerifyMismatch(t *testing.T) {
	// PUBREL with flags 0 is only accepted by a lenient decoder and
	// re-encodes with flags 2.
	in := newInspector(t, v5.Decoder{})
	in.verify = true

	sum, err := in.run(context.Background(), bytes.NewReader([]byte{0x60, 0x02, 0x00, 0x01}))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Packets)
	assert.Equal(t, 1, sum.Mismatches)
	assert.Equal(t, map[string]int{"PUBREL": 1}, sum.Types)
}

func TestInspectorOutput(t *testing.T) {
	stream := encodeAll(t, &v5.PingReq{}, &v5.PubAck{ID: 9, ReasonCode: packets.NoMatchingSubscribers})

	var out bytes.Buffer
	in := newInspector(t, v5.DefaultDecoder)
	in.out = &out

	sum, err := in.run(context.Background(), bytes.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Packets)
	assert.Equal(t, len(stream), sum.Bytes)
	assert.Equal(t, stream, out.Bytes())
}
