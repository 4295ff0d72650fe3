// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import "github.com/absmach/mqttwire/core/codec"

// PubComp is the PUBCOMP packet, the response to a PUBREL and the last packet of the QoS 2 exchange.
type PubComp struct {
	ID         uint16
	ReasonCode byte
	Properties BasicProperties
}

func (pkt *PubComp) Type() byte {
	return PubCompType
}

func (pkt *PubComp) Flags() byte {
	return 0
}

func (pkt *PubComp) String() string {
	return ackString(PubCompType, pkt.ID, pkt.ReasonCode)
}

func (pkt *PubComp) encode(e *encoder) {
	encodeAck(e, pkt.ID, pkt.ReasonCode, &pkt.Properties)
}

func (pkt *PubComp) decode(r *codec.Reader, _ byte) error {
	return decodeAck(r, PubCompType, &pkt.ID, &pkt.ReasonCode, &pkt.Properties)
}
