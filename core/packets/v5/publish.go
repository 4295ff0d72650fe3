// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

const (
	publishRetain   byte = 0x01
	publishQoSShift      = 1
	publishDup      byte = 0x08
)

// Publish is the PUBLISH packet.
type Publish struct {
	Dup    bool
	QoS    byte
	Retain bool

	TopicName string
	// ID is present on the wire only for QoS 1 and 2.
	ID         uint16
	Properties PublishProperties
	// Payload is nil when the packet carries no application message bytes.
	Payload []byte
}

// PublishProperties are the PUBLISH properties.
type PublishProperties struct {
	PayloadFormat   *byte
	MessageExpiry   *uint32
	TopicAlias      *uint16
	ResponseTopic   *string
	CorrelationData []byte
	User            []User
	// SubscriptionIdentifiers holds every Subscription Identifier in wire order.
	SubscriptionIdentifiers []uint32
	ContentType             *string
}

func (pkt *Publish) Type() byte {
	return PublishType
}

func (pkt *Publish) Flags() byte {
	flags := (pkt.QoS & 0x03) << publishQoSShift
	if pkt.Dup {
		flags |= publishDup
	}
	if pkt.Retain {
		flags |= publishRetain
	}
	return flags
}

func (pkt *Publish) String() string {
	return fmt.Sprintf("type: %s dup: %t qos: %d retain: %t topic: %q packet_id: %d payload_size: %d",
		packets.TypeName(PublishType), pkt.Dup, pkt.QoS, pkt.Retain, pkt.TopicName, pkt.ID, len(pkt.Payload))
}

func (pkt *Publish) encode(e *encoder) {
	if pkt.QoS > packets.QoS2 {
		e.fail(fmt.Errorf("%w: %d", packets.ErrInvalidQoS, pkt.QoS))
		return
	}
	if pkt.Dup && pkt.QoS == packets.QoS0 {
		e.fail(fmt.Errorf("%w: dup set on qos 0", packets.ErrInvalidFlags))
		return
	}
	if err := pkt.validTopic(); err != nil {
		e.fail(err)
		return
	}

	e.header.Text(pkt.TopicName)
	if pkt.QoS > packets.QoS0 {
		e.packetID(pkt.ID)
	}

	props := e.properties()
	p := &pkt.Properties
	putByte(props, PayloadFormatProp, p.PayloadFormat, 1)
	putUint32(props, MessageExpiryProp, p.MessageExpiry, 0)
	putUint16(props, TopicAliasProp, p.TopicAlias, 1)
	putText(props, ResponseTopicProp, p.ResponseTopic)
	putBinary(props, CorrelationDataProp, p.CorrelationData)
	putUser(props, p.User)
	for _, id := range p.SubscriptionIdentifiers {
		putSubscriptionID(props, id)
	}
	putText(props, ContentTypeProp, p.ContentType)

	e.payload.Raw(pkt.Payload)
}

// validTopic allows an empty topic name only when a Topic Alias stands in for it.
func (pkt *Publish) validTopic() error {
	if pkt.TopicName == "" && pkt.Properties.TopicAlias != nil {
		return nil
	}
	return validTopicName(pkt.TopicName)
}

func (pkt *Publish) decode(r *codec.Reader, flags byte) error {
	pkt.QoS = (flags >> publishQoSShift) & 0x03
	pkt.Dup = flags&publishDup != 0
	pkt.Retain = flags&publishRetain != 0
	if pkt.QoS > packets.QoS2 {
		return fmt.Errorf("%w: %d", packets.ErrInvalidQoS, pkt.QoS)
	}
	if pkt.Dup && pkt.QoS == packets.QoS0 {
		return fmt.Errorf("%w: dup set on qos 0", packets.ErrInvalidFlags)
	}

	var err error
	if pkt.TopicName, err = r.Text(); err != nil {
		return fmt.Errorf("topic name: %w", err)
	}
	if pkt.QoS > packets.QoS0 {
		if pkt.ID, err = readPacketID(r); err != nil {
			return fmt.Errorf("packet identifier: %w", err)
		}
	}
	if err := pkt.Properties.decode(r); err != nil {
		return err
	}
	if err := pkt.validTopic(); err != nil {
		return err
	}
	if r.Remaining() > 0 {
		pkt.Payload = r.RawRemaining()
	}
	return nil
}

func (p *PublishProperties) decode(r *codec.Reader) error {
	return readProperties(r, func(id byte) error {
		switch id {
		case PayloadFormatProp:
			return setOnce(&p.PayloadFormat, id, r.Byte, zeroOrOne)
		case MessageExpiryProp:
			return setOnce(&p.MessageExpiry, id, r.Uint32, nil)
		case TopicAliasProp:
			return setOnce(&p.TopicAlias, id, r.Uint16, nonZero16)
		case ResponseTopicProp:
			return setOnce(&p.ResponseTopic, id, r.Text, nil)
		case CorrelationDataProp:
			return setBinaryOnce(&p.CorrelationData, id, r)
		case UserProp:
			return readUser(r, &p.User)
		case SubscriptionIdentifierProp:
			v, err := r.VBI()
			if err != nil {
				return fmt.Errorf("%s: %w", PropertyName(id), err)
			}
			if !validSubscriptionID(v) {
				return fmt.Errorf("%w: %s = %d", packets.ErrInvalidPropertyValue, PropertyName(id), v)
			}
			p.SubscriptionIdentifiers = append(p.SubscriptionIdentifiers, v)
			return nil
		case ContentTypeProp:
			return setOnce(&p.ContentType, id, r.Text, nil)
		default:
			return unknownProperty(id, PublishType)
		}
	})
}
