// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/absmach/mqttwire/core/packets"
	v5 "github.com/absmach/mqttwire/core/packets/v5"
	"github.com/absmach/mqttwire/core/packets/v5/pool"
	"github.com/absmach/mqttwire/telemetry"
)

// inspector decodes a captured byte stream packet by packet.
type inspector struct {
	codec  *telemetry.Codec
	logger *slog.Logger

	// Re-encode each packet and compare it with the captured bytes.
	verify    bool
	verifyMax uint32

	// Re-encoded packets are written here when set.
	out io.Writer
}

type summary struct {
	Packets    int
	Bytes      int
	Mismatches int
	Types      map[string]int
}

func (in *inspector) run(ctx context.Context, r io.Reader) (summary, error) {
	sum := summary{Types: make(map[string]int)}

	dec := in.codec.Decoder()
	dec.New = pool.Acquire
	s := v5.NewScanner(r, dec)

	for s.Scan() {
		pkt, raw := s.Packet(), s.Bytes()
		name := packets.TypeName(pkt.Type())

		sum.Packets++
		sum.Bytes += len(raw)
		sum.Types[name]++
		in.codec.Observe(ctx, pkt, len(raw))
		in.logger.Debug("Decoded packet", "offset", sum.Bytes-len(raw), "size", len(raw), "packet", pkt.String())

		if err := in.reencode(ctx, pkt, raw, &sum); err != nil {
			pool.Release(pkt)
			return sum, err
		}
		pool.Release(pkt)
	}

	if err := s.Err(); err != nil {
		in.codec.Fail(ctx, "decode", err)
		return sum, fmt.Errorf("packet %d at offset %d: %w", sum.Packets+1, sum.Bytes, err)
	}
	return sum, nil
}

func (in *inspector) reencode(ctx context.Context, pkt v5.Packet, raw []byte, sum *summary) error {
	if !in.verify && in.out == nil {
		return nil
	}

	b, err := in.codec.Encode(ctx, pkt, in.verifyMax)
	if err != nil {
		in.logger.Warn("Failed to re-encode packet",
			"type", packets.TypeName(pkt.Type()),
			"class", telemetry.ErrorClass(err),
			"error", err)
		sum.Mismatches++
		return nil
	}

	if in.verify && !bytes.Equal(b, raw) {
		sum.Mismatches++
		in.logger.Warn("Re-encoded packet differs from capture",
			"type", packets.TypeName(pkt.Type()),
			"captured", fmt.Sprintf("%X", raw),
			"encoded", fmt.Sprintf("%X", b))
	}

	if in.out != nil {
		if _, err := in.out.Write(b); err != nil {
			return fmt.Errorf("failed to write packet: %w", err)
		}
	}
	return nil
}
