// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// ConnAck is the CONNACK packet.
type ConnAck struct {
	SessionPresent bool
	ReasonCode     byte
	Properties     ConnAckProperties
}

// ConnAckProperties are the CONNACK properties.
type ConnAckProperties struct {
	SessionExpiryInterval *uint32
	ReceiveMaximum        *uint16
	MaximumQoS            *byte
	RetainAvailable       *bool
	MaximumPacketSize     *uint32
	AssignedClientID      *string
	TopicAliasMaximum     *uint16
	ReasonString          *string
	User                  []User
	WildcardSubAvailable  *bool
	SubIDAvailable        *bool
	SharedSubAvailable    *bool
	ServerKeepAlive       *uint16
	ResponseInfo          *string
	ServerReference       *string
	AuthMethod            *string
	AuthData              []byte
}

func (pkt *ConnAck) Type() byte {
	return ConnAckType
}

func (pkt *ConnAck) Flags() byte {
	return 0
}

func (pkt *ConnAck) String() string {
	return fmt.Sprintf("type: %s session_present: %t reason_code: 0x%02X (%s)",
		packets.TypeName(ConnAckType), pkt.SessionPresent, pkt.ReasonCode, packets.ReasonName(pkt.ReasonCode))
}

func (pkt *ConnAck) encode(e *encoder) {
	e.header.Bool(pkt.SessionPresent).Byte(pkt.ReasonCode)

	props := e.properties()
	p := &pkt.Properties
	putUint32(props, SessionExpiryIntervalProp, p.SessionExpiryInterval, 0)
	putUint16(props, ReceiveMaximumProp, p.ReceiveMaximum, 1)
	putByte(props, MaximumQOSProp, p.MaximumQoS, 1)
	putBool(props, RetainAvailableProp, p.RetainAvailable)
	putUint32(props, MaximumPacketSizeProp, p.MaximumPacketSize, 1)
	putText(props, AssignedClientIDProp, p.AssignedClientID)
	putUint16(props, TopicAliasMaximumProp, p.TopicAliasMaximum, 0)
	putBool(props, WildcardSubAvailableProp, p.WildcardSubAvailable)
	putBool(props, SubIDAvailableProp, p.SubIDAvailable)
	putBool(props, SharedSubAvailableProp, p.SharedSubAvailable)
	putUint16(props, ServerKeepAliveProp, p.ServerKeepAlive, 0)
	putText(props, ResponseInfoProp, p.ResponseInfo)
	putText(props, ServerReferenceProp, p.ServerReference)
	putText(props, AuthMethodProp, p.AuthMethod)
	putBinary(props, AuthDataProp, p.AuthData)
	e.discardableUser(p.User)
	e.discardableText(ReasonStringProp, p.ReasonString)
}

func (pkt *ConnAck) decode(r *codec.Reader, _ byte) error {
	ack, err := r.Byte()
	if err != nil {
		return fmt.Errorf("acknowledge flags: %w", err)
	}
	if ack&^0x01 != 0 {
		return fmt.Errorf("%w: 0x%02X", packets.ErrInvalidAckFlags, ack)
	}
	pkt.SessionPresent = ack == 0x01
	if pkt.ReasonCode, err = r.Byte(); err != nil {
		return fmt.Errorf("reason code: %w", err)
	}
	return pkt.Properties.decode(r)
}

func (p *ConnAckProperties) decode(r *codec.Reader) error {
	return readProperties(r, func(id byte) error {
		switch id {
		case SessionExpiryIntervalProp:
			return setOnce(&p.SessionExpiryInterval, id, r.Uint32, nil)
		case ReceiveMaximumProp:
			return setOnce(&p.ReceiveMaximum, id, r.Uint16, nonZero16)
		case MaximumQOSProp:
			return setOnce(&p.MaximumQoS, id, r.Byte, zeroOrOne)
		case RetainAvailableProp:
			return setOnce(&p.RetainAvailable, id, r.Bool, nil)
		case MaximumPacketSizeProp:
			return setOnce(&p.MaximumPacketSize, id, r.Uint32, nonZero32)
		case AssignedClientIDProp:
			return setOnce(&p.AssignedClientID, id, r.Text, nil)
		case TopicAliasMaximumProp:
			return setOnce(&p.TopicAliasMaximum, id, r.Uint16, nil)
		case ReasonStringProp:
			return setOnce(&p.ReasonString, id, r.Text, nil)
		case UserProp:
			return readUser(r, &p.User)
		case WildcardSubAvailableProp:
			return setOnce(&p.WildcardSubAvailable, id, r.Bool, nil)
		case SubIDAvailableProp:
			return setOnce(&p.SubIDAvailable, id, r.Bool, nil)
		case SharedSubAvailableProp:
			return setOnce(&p.SharedSubAvailable, id, r.Bool, nil)
		case ServerKeepAliveProp:
			return setOnce(&p.ServerKeepAlive, id, r.Uint16, nil)
		case ResponseInfoProp:
			return setOnce(&p.ResponseInfo, id, r.Text, nil)
		case ServerReferenceProp:
			return setOnce(&p.ServerReference, id, r.Text, nil)
		case AuthMethodProp:
			return setOnce(&p.AuthMethod, id, r.Text, nil)
		case AuthDataProp:
			return setBinaryOnce(&p.AuthData, id, r)
		default:
			return unknownProperty(id, ConnAckType)
		}
	})
}
