// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// PubAck is the PUBACK packet, the response to a QoS 1 PUBLISH.
type PubAck struct {
	ID         uint16
	ReasonCode byte
	Properties BasicProperties
}

func (pkt *PubAck) Type() byte {
	return PubAckType
}

func (pkt *PubAck) Flags() byte {
	return 0
}

func (pkt *PubAck) String() string {
	return ackString(PubAckType, pkt.ID, pkt.ReasonCode)
}

func (pkt *PubAck) encode(e *encoder) {
	encodeAck(e, pkt.ID, pkt.ReasonCode, &pkt.Properties)
}

func (pkt *PubAck) decode(r *codec.Reader, _ byte) error {
	return decodeAck(r, PubAckType, &pkt.ID, &pkt.ReasonCode, &pkt.Properties)
}

// encodeAck writes the variable header shared by PUBACK, PUBREC, PUBREL
// and PUBCOMP. The full form is always written.
func encodeAck(e *encoder, id uint16, reasonCode byte, props *BasicProperties) {
	e.packetID(id)
	e.header.Byte(reasonCode)
	e.properties()
	props.encode(e)
}

// decodeAck reads the variable header shared by PUBACK, PUBREC, PUBREL and
// PUBCOMP. A packet that ends after the identifier implies reason code
// Success; one that ends after the reason code has no properties.
func decodeAck(r *codec.Reader, packetType byte, id *uint16, reasonCode *byte, props *BasicProperties) error {
	var err error
	if *id, err = readPacketID(r); err != nil {
		return fmt.Errorf("packet identifier: %w", err)
	}
	if r.Remaining() == 0 {
		*reasonCode = packets.Success
		return nil
	}
	if *reasonCode, err = r.Byte(); err != nil {
		return fmt.Errorf("reason code: %w", err)
	}
	if r.Remaining() == 0 {
		return nil
	}
	return props.decode(r, packetType)
}

func ackString(packetType byte, id uint16, reasonCode byte) string {
	return fmt.Sprintf("type: %s packet_id: %d reason_code: 0x%02X (%s)",
		packets.TypeName(packetType), id, reasonCode, packets.ReasonName(reasonCode))
}
