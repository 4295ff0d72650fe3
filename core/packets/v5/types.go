// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package v5 encodes and decodes MQTT 5.0 control packets.
package v5

import (
	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// Re-exported from the parent package for convenience.
type (
	User     = packets.User
	Resetter = packets.Resetter
)

// Re-exported packet type constants.
const (
	ConnectType     = packets.ConnectType
	ConnAckType     = packets.ConnAckType
	PublishType     = packets.PublishType
	PubAckType      = packets.PubAckType
	PubRecType      = packets.PubRecType
	PubRelType      = packets.PubRelType
	PubCompType     = packets.PubCompType
	SubscribeType   = packets.SubscribeType
	SubAckType      = packets.SubAckType
	UnsubscribeType = packets.UnsubscribeType
	UnsubAckType    = packets.UnsubAckType
	PingReqType     = packets.PingReqType
	PingRespType    = packets.PingRespType
	DisconnectType  = packets.DisconnectType
	AuthType        = packets.AuthType
)

// requiredFlags is the fixed header nibble PUBREL, SUBSCRIBE and
// UNSUBSCRIBE must carry.
const requiredFlags byte = 0x02

// Packet is an MQTT 5.0 control packet. The set of implementations is
// closed: one struct per packet type, all defined in this package.
type Packet interface {
	// Type returns the packet type constant.
	Type() byte

	// Flags returns the low nibble of the fixed header.
	Flags() byte

	// String returns a one-line human-readable representation.
	String() string

	encode(e *encoder)
	decode(r *codec.Reader, flags byte) error
}

// NewPacket returns an empty packet of the given type, or nil if the type
// is reserved.
func NewPacket(packetType byte) Packet {
	switch packetType {
	case ConnectType:
		return &Connect{}
	case ConnAckType:
		return &ConnAck{}
	case PublishType:
		return &Publish{}
	case PubAckType:
		return &PubAck{}
	case PubRecType:
		return &PubRec{}
	case PubRelType:
		return &PubRel{}
	case PubCompType:
		return &PubComp{}
	case SubscribeType:
		return &Subscribe{}
	case SubAckType:
		return &SubAck{}
	case UnsubscribeType:
		return &Unsubscribe{}
	case UnsubAckType:
		return &UnSubAck{}
	case PingReqType:
		return &PingReq{}
	case PingRespType:
		return &PingResp{}
	case DisconnectType:
		return &Disconnect{}
	case AuthType:
		return &Auth{}
	default:
		return nil
	}
}

func readPacketID(r *codec.Reader) (uint16, error) {
	id, err := r.Uint16()
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, packets.ErrZeroPacketID
	}
	return id, nil
}
