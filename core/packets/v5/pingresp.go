// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// PingResp is the PINGRESP packet.
type PingResp struct{}

func (pkt *PingResp) Type() byte {
	return PingRespType
}

func (pkt *PingResp) Flags() byte {
	return 0
}

func (pkt *PingResp) String() string {
	return "type: " + packets.TypeName(PingRespType)
}

func (pkt *PingResp) encode(*encoder) {}

func (pkt *PingResp) decode(*codec.Reader, byte) error {
	return nil
}
