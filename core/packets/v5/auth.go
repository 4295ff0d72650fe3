// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// Auth is the AUTH packet used for extended authentication exchanges.
type Auth struct {
	ReasonCode byte
	Properties AuthProperties
}

// AuthProperties are the AUTH properties.
type AuthProperties struct {
	AuthMethod   *string
	AuthData     []byte
	ReasonString *string
	User         []User
}

func (pkt *Auth) Type() byte {
	return AuthType
}

func (pkt *Auth) Flags() byte {
	return 0
}

func (pkt *Auth) String() string {
	method := ""
	if pkt.Properties.AuthMethod != nil {
		method = *pkt.Properties.AuthMethod
	}
	return fmt.Sprintf("type: %s reason_code: 0x%02X (%s) method: %q",
		packets.TypeName(AuthType), pkt.ReasonCode, packets.ReasonName(pkt.ReasonCode), method)
}

func (pkt *Auth) encode(e *encoder) {
	e.header.Byte(pkt.ReasonCode)
	p := &pkt.Properties
	props := e.properties()
	putText(props, AuthMethodProp, p.AuthMethod)
	putBinary(props, AuthDataProp, p.AuthData)
	e.discardableUser(p.User)
	e.discardableText(ReasonStringProp, p.ReasonString)
}

func (pkt *Auth) decode(r *codec.Reader, _ byte) error {
	if r.Remaining() == 0 {
		pkt.ReasonCode = packets.Success
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
		case AuthMethodProp:
			return setOnce(&p.AuthMethod, id, r.Text, nil)
		case AuthDataProp:
			return setBinaryOnce(&p.AuthData, id, r)
		case ReasonStringProp:
			return setOnce(&p.ReasonString, id, r.Text, nil)
		case UserProp:
			return readUser(r, &p.User)
		default:
			return unknownProperty(id, AuthType)
		}
	})
}
