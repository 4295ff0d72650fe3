// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// Disconnect is the DISCONNECT packet.
type Disconnect struct {
	ReasonCode byte
	Properties DisconnectProperties
}

// DisconnectProperties are the DISCONNECT properties.
type DisconnectProperties struct {
	SessionExpiryInterval *uint32
	ReasonString          *string
	User                  []User
	// ServerReference names another server the client may use.
	ServerReference *string
}

func (pkt *Disconnect) Type() byte {
	return DisconnectType
}

func (pkt *Disconnect) Flags() byte {
	return 0
}

func (pkt *Disconnect) String() string {
	return fmt.Sprintf("type: %s reason_code: 0x%02X (%s)", packets.TypeName(DisconnectType), pkt.ReasonCode, packets.ReasonName(pkt.ReasonCode))
}

// Discardable blocks are written in reverse of the order they are dropped:
// Reason String goes first, then User Properties, then Server Reference.
func (pkt *Disconnect) encode(e *encoder) {
	e.header.Byte(pkt.ReasonCode)
	p := &pkt.Properties
	putUint32(e.properties(), SessionExpiryIntervalProp, p.SessionExpiryInterval, 0)
	e.discardableText(ServerReferenceProp, p.ServerReference)
	e.discardableUser(p.User)
	e.discardableText(ReasonStringProp, p.ReasonString)
}

func (pkt *Disconnect) decode(r *codec.Reader, _ byte) error {
	if r.Remaining() == 0 {
		pkt.ReasonCode = packets.NormalDisconnection
		return nil
	}
	var err error
	if pkt.ReasonCode, err = r.Byte(); err != nil {
		return fmt.Errorf("reason code: %w", err)
	}
	if r.Remaining() == 0 {
		return nil
	}
	p := &pkt.Properties
	return readProperties(r, func(id byte) error {
		switch id {
		case SessionExpiryIntervalProp:
			return setOnce(&p.SessionExpiryInterval, id, r.Uint32, nil)
		case ReasonStringProp:
			return setOnce(&p.ReasonString, id, r.Text, nil)
		case UserProp:
			return readUser(r, &p.User)
		case ServerReferenceProp:
			return setOnce(&p.ServerReference, id, r.Text, nil)
		default:
			return unknownProperty(id, DisconnectType)
		}
	})
}
