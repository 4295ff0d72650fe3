// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import "github.com/absmach/mqttwire/core/codec"

// PubRec is the PUBREC packet, the first response to a QoS 2 PUBLISH.
type PubRec struct {
	ID         uint16
	ReasonCode byte
	Properties BasicProperties
}

func (pkt *PubRec) Type() byte {
	return PubRecType
}

func (pkt *PubRec) Flags() byte {
	return 0
}

func (pkt *PubRec) String() string {
	return ackString(PubRecType, pkt.ID, pkt.ReasonCode)
}

func (pkt *PubRec) encode(e *encoder) {
	encodeAck(e, pkt.ID, pkt.ReasonCode, &pkt.Properties)
}

func (pkt *PubRec) decode(r *codec.Reader, _ byte) error {
	return decodeAck(r, PubRecType, &pkt.ID, &pkt.ReasonCode, &pkt.Properties)
}
