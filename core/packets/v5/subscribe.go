// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"
	"strings"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// Subscription option bits.
const (
	optionQoSMask             byte = 0x03
	optionNoLocal             byte = 0x04
	optionRetainAsPublished   byte = 0x08
	optionRetainHandlingShift      = 4
	optionReserved            byte = 0xC0
)

// Retain handling options.
const (
	SendRetainedOnSubscribe byte = iota
	SendRetainedOnNewSubscribe
	DoNotSendRetained
)

// Subscription is one topic filter and its options in a SUBSCRIBE payload.
type Subscription struct {
	TopicFilter       string
	MaxQoS            byte
	NoLocal           bool
	RetainAsPublished bool
	RetainHandling    byte
}

// Options returns the subscription options byte.
func (s Subscription) Options() byte {
	opts := s.MaxQoS&optionQoSMask | (s.RetainHandling&0x03)<<optionRetainHandlingShift
	if s.NoLocal {
		opts |= optionNoLocal
	}
	if s.RetainAsPublished {
		opts |= optionRetainAsPublished
	}
	return opts
}

func (s Subscription) validate() error {
	if s.MaxQoS > packets.QoS2 {
		return fmt.Errorf("%w: %d for %q", packets.ErrInvalidQoS, s.MaxQoS, s.TopicFilter)
	}
	if s.RetainHandling > DoNotSendRetained {
		return fmt.Errorf("%w: retain handling %d for %q", packets.ErrInvalidOptions, s.RetainHandling, s.TopicFilter)
	}
	return validTopicFilter(s.TopicFilter)
}

func parseOptions(filter string, opts byte) (Subscription, error) {
	if opts&optionReserved != 0 {
		return Subscription{}, fmt.Errorf("%w: reserved bits set in 0x%02X", packets.ErrInvalidOptions, opts)
	}
	s := Subscription{
		TopicFilter:       filter,
		MaxQoS:            opts & optionQoSMask,
		NoLocal:           opts&optionNoLocal != 0,
		RetainAsPublished: opts&optionRetainAsPublished != 0,
		RetainHandling:    (opts >> optionRetainHandlingShift) & 0x03,
	}
	return s, s.validate()
}

// Subscribe is the SUBSCRIBE packet.
type Subscribe struct {
	ID            uint16
	Properties    SubscribeProperties
	Subscriptions []Subscription
}

// SubscribeProperties are the SUBSCRIBE properties.
type SubscribeProperties struct {
	SubscriptionIdentifier *uint32
	User                   []User
}

func (pkt *Subscribe) Type() byte {
	return SubscribeType
}

func (pkt *Subscribe) Flags() byte {
	return requiredFlags
}

func (pkt *Subscribe) String() string {
	filters := make([]string, len(pkt.Subscriptions))
	for i, s := range pkt.Subscriptions {
		filters[i] = fmt.Sprintf("%s:%d", s.TopicFilter, s.MaxQoS)
	}
	return fmt.Sprintf("type: %s packet_id: %d subscriptions: [%s]",
		packets.TypeName(SubscribeType), pkt.ID, strings.Join(filters, " "))
}

func (pkt *Subscribe) encode(e *encoder) {
	if len(pkt.Subscriptions) == 0 {
		e.fail(packets.ErrEmptyPayload)
		return
	}
	e.packetID(pkt.ID)

	props := e.properties()
	if id := pkt.Properties.SubscriptionIdentifier; id != nil {
		putSubscriptionID(props, *id)
	}
	putUser(props, pkt.Properties.User)

	for _, s := range pkt.Subscriptions {
		if err := s.validate(); err != nil {
			e.fail(err)
			return
		}
		e.payload.Text(s.TopicFilter).Byte(s.Options())
	}
}

func (pkt *Subscribe) decode(r *codec.Reader, _ byte) error {
	var err error
	if pkt.ID, err = readPacketID(r); err != nil {
		return fmt.Errorf("packet identifier: %w", err)
	}
	if err := pkt.Properties.decode(r); err != nil {
		return err
	}
	for r.Remaining() > 0 {
		filter, err := r.Text()
		if err != nil {
			return fmt.Errorf("topic filter: %w", err)
		}
		opts, err := r.Byte()
		if err != nil {
			return fmt.Errorf("subscription options: %w", err)
		}
		s, err := parseOptions(filter, opts)
		if err != nil {
			return err
		}
		pkt.Subscriptions = append(pkt.Subscriptions, s)
	}
	if len(pkt.Subscriptions) == 0 {
		return packets.ErrEmptyPayload
	}
	return nil
}

func (p *SubscribeProperties) decode(r *codec.Reader) error {
	return readProperties(r, func(id byte) error {
		switch id {
		case SubscriptionIdentifierProp:
			return setOnce(&p.SubscriptionIdentifier, id, r.VBI, validSubscriptionID)
		case UserProp:
			return readUser(r, &p.User)
		default:
			return unknownProperty(id, SubscribeType)
		}
	})
}
