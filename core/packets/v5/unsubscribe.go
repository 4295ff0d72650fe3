// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"
	"strings"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// Unsubscribe is the UNSUBSCRIBE packet.
type Unsubscribe struct {
	ID         uint16
	Properties UnsubscribeProperties
	Topics     []string
}

// UnsubscribeProperties are the UNSUBSCRIBE properties.
type UnsubscribeProperties struct {
	User []User
}

func (pkt *Unsubscribe) Type() byte {
	return UnsubscribeType
}

func (pkt *Unsubscribe) Flags() byte {
	return requiredFlags
}

func (pkt *Unsubscribe) String() string {
	return fmt.Sprintf("type: %s packet_id: %d topics: [%s]",
		packets.TypeName(UnsubscribeType), pkt.ID, strings.Join(pkt.Topics, " "))
}

func (pkt *Unsubscribe) encode(e *encoder) {
	if len(pkt.Topics) == 0 {
		e.fail(packets.ErrEmptyPayload)
		return
	}
	e.packetID(pkt.ID)
	putUser(e.properties(), pkt.Properties.User)
	for _, topic := range pkt.Topics {
		if err := validTopicFilter(topic); err != nil {
			e.fail(err)
			return
		}
		e.payload.Text(topic)
	}
}

func (pkt *Unsubscribe) decode(r *codec.Reader, _ byte) error {
	var err error
	if pkt.ID, err = readPacketID(r); err != nil {
		return fmt.Errorf("packet identifier: %w", err)
	}
	err = readProperties(r, func(id byte) error {
		if id != UserProp {
			return unknownProperty(id, UnsubscribeType)
		}
		return readUser(r, &pkt.Properties.User)
	})
	if err != nil {
		return err
	}
	for r.Remaining() > 0 {
		topic, err := r.Text()
		if err != nil {
			return fmt.Errorf("topic filter: %w", err)
		}
		if err := validTopicFilter(topic); err != nil {
			return err
		}
		pkt.Topics = append(pkt.Topics, topic)
	}
	if len(pkt.Topics) == 0 {
		return packets.ErrEmptyPayload
	}
	return nil
}
