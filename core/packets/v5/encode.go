// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"
	"io"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// EncodeStats describes the outcome of an encode.
type EncodeStats struct {
	// Size is the length of the encoded packet.
	Size int
	// Discarded is the number of property blocks dropped to fit the
	// maximum packet size.
	Discarded int
}

// encoder collects the three variable-length sections of a packet. The
// property section is optional; packet types without one never call
// properties.
type encoder struct {
	header   *codec.Writer
	props    *codec.Writer
	payload  *codec.Writer
	hasProps bool
	discard  []int
	err      error
}

func newEncoder(pkt Packet) *encoder {
	payload := 0
	if p, ok := pkt.(*Publish); ok {
		payload = len(p.Payload)
	}
	return &encoder{
		header:  codec.NewWriter(),
		props:   codec.NewWriter(),
		payload: codec.NewWriterSize(payload),
	}
}

func (e *encoder) release() {
	e.header.Release()
	e.props.Release()
	e.payload.Release()
}

// properties enables the property section and returns its writer.
func (e *encoder) properties() *codec.Writer {
	e.hasProps = true
	return e.props
}

// markDiscardable records the current end of the property section. Every
// property written after the mark may be dropped to satisfy a maximum
// packet size; the most recent mark is dropped first.
func (e *encoder) markDiscardable() {
	e.discard = append(e.discard, e.props.Len())
}

func (e *encoder) discardableText(id byte, v *string) {
	if v == nil {
		return
	}
	e.markDiscardable()
	putText(e.properties(), id, v)
}

func (e *encoder) discardableUser(users []User) {
	if len(users) == 0 {
		return
	}
	e.markDiscardable()
	putUser(e.properties(), users)
}

func (e *encoder) packetID(id uint16) {
	if id == 0 {
		e.fail(packets.ErrZeroPacketID)
		return
	}
	e.header.Uint16(id)
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) firstErr() error {
	for _, err := range []error{e.err, e.header.Err(), e.props.Err(), e.payload.Err()} {
		if err != nil {
			return err
		}
	}
	return nil
}

// sizes returns the property length prefix size, the remaining length and
// the total packet size for the current content.
func (e *encoder) sizes() (propsPrefix, remaining, total int) {
	if e.hasProps {
		propsPrefix = codec.SizeVBI(uint32(e.props.Len()))
	}
	remaining = e.header.Len() + propsPrefix + e.props.Len() + e.payload.Len()
	total = 1 + codec.SizeVBI(uint32(remaining)) + remaining
	return propsPrefix, remaining, total
}

// Encode serializes pkt. A non-zero maxPacketSize is the largest packet
// the receiver accepts; discardable properties are dropped, most recently
// marked first, until the packet fits.
func Encode(pkt Packet, maxPacketSize uint32) ([]byte, error) {
	b, _, err := EncodeWithStats(pkt, maxPacketSize)
	return b, err
}

// EncodeWithStats is Encode that also reports what the size negotiation did.
func EncodeWithStats(pkt Packet, maxPacketSize uint32) ([]byte, EncodeStats, error) {
	var stats EncodeStats
	name := packets.TypeName(pkt.Type())

	e := newEncoder(pkt)
	defer e.release()

	pkt.encode(e)
	if err := e.firstErr(); err != nil {
		return nil, stats, packets.EncodeRange(fmt.Errorf("encode %s: %w", name, err))
	}

	_, remaining, total := e.sizes()
	for maxPacketSize > 0 && total > int(maxPacketSize) {
		if len(e.discard) == 0 {
			return nil, stats, fmt.Errorf("%w: %s of %d bytes exceeds maximum of %d", packets.ErrPacketTooLarge, name, total, maxPacketSize)
		}
		last := len(e.discard) - 1
		e.props.Truncate(e.discard[last])
		e.discard = e.discard[:last]
		stats.Discarded++
		_, remaining, total = e.sizes()
	}
	if e.props.Len() > codec.MaxVBI || remaining > codec.MaxVBI {
		return nil, stats, packets.EncodeRange(fmt.Errorf("encode %s: remaining length %d: %w", name, remaining, codec.ErrValueOutOfRange))
	}

	out := make([]byte, 0, total)
	out = append(out, pkt.Type()<<4|pkt.Flags())
	out, _ = codec.AppendVBI(out, uint32(remaining))
	out = append(out, e.header.Bytes()...)
	if e.hasProps {
		out, _ = codec.AppendVBI(out, uint32(e.props.Len()))
		out = append(out, e.props.Bytes()...)
	}
	out = append(out, e.payload.Bytes()...)

	stats.Size = len(out)
	return out, stats, nil
}

// WritePacket encodes pkt and writes it to w in a single call.
func WritePacket(w io.Writer, pkt Packet, maxPacketSize uint32) error {
	b, err := Encode(pkt, maxPacketSize)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
