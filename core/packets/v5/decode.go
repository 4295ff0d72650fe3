// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"errors"
	"fmt"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// Decoder holds decoding options. The zero value accepts any reserved
// fixed header flags and any packet size.
type Decoder struct {
	// StrictFlags rejects packets whose reserved fixed header flags differ
	// from the values the protocol prescribes.
	StrictFlags bool

	// MaxPacketSize rejects packets larger than this many bytes. Zero
	// means no limit.
	MaxPacketSize uint32

	// New allocates the packet to decode into. NewPacket is used when nil.
	New func(packetType byte) Packet
}

// DefaultDecoder validates fixed header flags and imposes no size limit.
var DefaultDecoder = Decoder{StrictFlags: true}

// Decode decodes one packet from the start of buf using DefaultDecoder.
func Decode(buf []byte) (Packet, int, error) {
	return DefaultDecoder.Decode(buf)
}

// Decode decodes one packet from the start of buf and returns it together
// with the number of bytes it occupied. Bytes after the packet are left
// alone. If buf holds only part of a packet the error is
// packets.ErrNeedMoreData and nothing is consumed.
func (d Decoder) Decode(buf []byte) (Packet, int, error) {
	if len(buf) < 2 {
		return nil, 0, packets.ErrNeedMoreData
	}
	remaining, n, err := codec.DecodeVBI(buf[1:])
	switch {
	case errors.Is(err, codec.ErrBufferTooShort):
		return nil, 0, packets.ErrNeedMoreData
	case err != nil:
		return nil, 0, packets.Malformed(fmt.Errorf("remaining length: %w", err))
	}

	size := 1 + n + int(remaining)
	if d.MaxPacketSize > 0 && size > int(d.MaxPacketSize) {
		return nil, 0, fmt.Errorf("%w: %d bytes exceeds maximum of %d", packets.ErrPacketTooLarge, size, d.MaxPacketSize)
	}
	if len(buf) < size {
		return nil, 0, packets.ErrNeedMoreData
	}

	packetType, flags := buf[0]>>4, buf[0]&0x0F
	pkt := d.newPacket(packetType)
	if pkt == nil {
		return nil, 0, packets.Malformed(fmt.Errorf("%w: %d", packets.ErrUnknownPacketType, packetType))
	}
	name := packets.TypeName(packetType)
	if packetType != PublishType && d.StrictFlags && flags != pkt.Flags() {
		return nil, 0, packets.Malformed(fmt.Errorf("%w: %s with flags 0x%X", packets.ErrInvalidFlags, name, flags))
	}

	r := codec.NewReader(buf[1+n:])
	if err := r.OpenBoundary(int(remaining)); err != nil {
		return nil, 0, packets.Malformed(err)
	}
	if err := pkt.decode(r, flags); err != nil {
		return nil, 0, packets.Malformed(fmt.Errorf("decode %s: %w", name, err))
	}
	trailing, err := r.CloseBoundary()
	if err != nil {
		return nil, 0, packets.Malformed(err)
	}
	if trailing > 0 {
		return nil, 0, packets.Malformed(fmt.Errorf("%w: %d bytes in %s", packets.ErrTrailingData, trailing, name))
	}

	return pkt, size, nil
}

func (d Decoder) newPacket(packetType byte) Packet {
	if d.New != nil {
		return d.New(packetType)
	}
	return NewPacket(packetType)
}
