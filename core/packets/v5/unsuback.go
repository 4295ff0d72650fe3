// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// UnSubAck is the UNSUBACK packet.
type UnSubAck struct {
	ID          uint16
	Properties  BasicProperties
	ReasonCodes []byte
}

func (pkt *UnSubAck) Type() byte {
	return UnsubAckType
}

func (pkt *UnSubAck) Flags() byte {
	return 0
}

func (pkt *UnSubAck) String() string {
	return fmt.Sprintf("type: %s packet_id: %d reason_codes: %v", packets.TypeName(UnsubAckType), pkt.ID, pkt.ReasonCodes)
}

func (pkt *UnSubAck) encode(e *encoder) {
	encodeAckList(e, pkt.ID, &pkt.Properties, pkt.ReasonCodes)
}

func (pkt *UnSubAck) decode(r *codec.Reader, _ byte) error {
	return decodeAckList(r, UnsubAckType, &pkt.ID, &pkt.Properties, &pkt.ReasonCodes)
}
