// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// SubAck is the SUBACK packet. ReasonCodes has one entry per subscription
// of the acknowledged SUBSCRIBE, in the same order.
type SubAck struct {
	ID          uint16
	Properties  BasicProperties
	ReasonCodes []byte
}

func (pkt *SubAck) Type() byte {
	return SubAckType
}

func (pkt *SubAck) Flags() byte {
	return 0
}

func (pkt *SubAck) String() string {
	return fmt.Sprintf("type: %s packet_id: %d reason_codes: %v", packets.TypeName(SubAckType), pkt.ID, pkt.ReasonCodes)
}

func (pkt *SubAck) encode(e *encoder) {
	encodeAckList(e, pkt.ID, &pkt.Properties, pkt.ReasonCodes)
}

func (pkt *SubAck) decode(r *codec.Reader, _ byte) error {
	return decodeAckList(r, SubAckType, &pkt.ID, &pkt.Properties, &pkt.ReasonCodes)
}

// encodeAckList writes SUBACK and UNSUBACK: identifier, properties and a
// non-empty list of reason codes.
func encodeAckList(e *encoder, id uint16, props *BasicProperties, codes []byte) {
	if len(codes) == 0 {
		e.fail(packets.ErrEmptyPayload)
		return
	}
	e.packetID(id)
	e.properties()
	props.encode(e)
	e.payload.Raw(codes)
}

func decodeAckList(r *codec.Reader, packetType byte, id *uint16, props *BasicProperties, codes *[]byte) error {
	var err error
	if *id, err = readPacketID(r); err != nil {
		return fmt.Errorf("packet identifier: %w", err)
	}
	if err := props.decode(r, packetType); err != nil {
		return err
	}
	if r.Remaining() == 0 {
		return packets.ErrEmptyPayload
	}
	*codes = r.RawRemaining()
	return nil
}
