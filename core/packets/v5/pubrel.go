// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import "github.com/absmach/mqttwire/core/codec"

// PubRel is the PUBREL packet, the response to a PUBREC.
type PubRel struct {
	ID         uint16
	ReasonCode byte
	Properties BasicProperties
}

func (pkt *PubRel) Type() byte {
	return PubRelType
}

func (pkt *PubRel) Flags() byte {
	return requiredFlags
}

func (pkt *PubRel) String() string {
	return ackString(PubRelType, pkt.ID, pkt.ReasonCode)
}

func (pkt *PubRel) encode(e *encoder) {
	encodeAck(e, pkt.ID, pkt.ReasonCode, &pkt.Properties)
}

func (pkt *PubRel) decode(r *codec.Reader, _ byte) error {
	return decodeAck(r, PubRelType, &pkt.ID, &pkt.ReasonCode, &pkt.Properties)
}
