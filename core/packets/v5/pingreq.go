// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// PingReq is the PINGREQ packet. It has no variable header or payload.
type PingReq struct{}

func (pkt *PingReq) Type() byte {
	return PingReqType
}

func (pkt *PingReq) Flags() byte {
	return 0
}

func (pkt *PingReq) String() string {
	return "type: " + packets.TypeName(PingReqType)
}

func (pkt *PingReq) encode(*encoder) {}

func (pkt *PingReq) decode(*codec.Reader, byte) error {
	return nil
}
