// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"
	"strings"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// Connect flag bits.
const (
	connectReserved     byte = 0x01
	connectCleanStart   byte = 0x02
	connectWill         byte = 0x04
	connectWillQoSShift      = 3
	connectWillRetain   byte = 0x20
	connectPassword     byte = 0x40
	connectUsername     byte = 0x80
)

// Connect is the CONNECT packet.
type Connect struct {
	CleanStart bool
	KeepAlive  uint16
	Properties ConnectProperties

	// Payload
	ClientID string
	// Will is nil when the client sets no Will Message.
	Will     *Will
	Username *string
	// Password is nil when absent.
	Password []byte
}

// ConnectProperties are the CONNECT properties.
type ConnectProperties struct {
	SessionExpiryInterval *uint32
	ReceiveMaximum        *uint16
	MaximumPacketSize     *uint32
	TopicAliasMaximum     *uint16
	RequestResponseInfo   *bool
	RequestProblemInfo    *bool
	User                  []User
	AuthMethod            *string
	AuthData              []byte
}

// Will is the Will Message carried in the CONNECT payload.
type Will struct {
	QoS        byte
	Retain     bool
	Topic      string
	Payload    []byte
	Properties WillProperties
}

// WillProperties are the properties of a Will Message.
type WillProperties struct {
	WillDelayInterval *uint32
	PayloadFormat     *byte
	MessageExpiry     *uint32
	ContentType       *string
	ResponseTopic     *string
	CorrelationData   []byte
	User              []User
}

func (pkt *Connect) Type() byte {
	return ConnectType
}

func (pkt *Connect) Flags() byte {
	return 0
}

func (pkt *Connect) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "type: %s client_id: %q clean_start: %t keep_alive: %d", packets.TypeName(ConnectType), pkt.ClientID, pkt.CleanStart, pkt.KeepAlive)
	if pkt.Will != nil {
		fmt.Fprintf(&b, " will_topic: %q will_qos: %d will_retain: %t", pkt.Will.Topic, pkt.Will.QoS, pkt.Will.Retain)
	}
	if pkt.Username != nil {
		fmt.Fprintf(&b, " username: %q", *pkt.Username)
	}
	if pkt.Password != nil {
		b.WriteString(" password: <redacted>")
	}
	return b.String()
}

func (pkt *Connect) connectFlags() byte {
	var flags byte
	if pkt.CleanStart {
		flags |= connectCleanStart
	}
	if pkt.Will != nil {
		flags |= connectWill | pkt.Will.QoS<<connectWillQoSShift
		if pkt.Will.Retain {
			flags |= connectWillRetain
		}
	}
	if pkt.Password != nil {
		flags |= connectPassword
	}
	if pkt.Username != nil {
		flags |= connectUsername
	}
	return flags
}

func (pkt *Connect) encode(e *encoder) {
	if pkt.Will != nil {
		if pkt.Will.QoS > packets.QoS2 {
			e.fail(fmt.Errorf("%w: will qos %d", packets.ErrInvalidQoS, pkt.Will.QoS))
			return
		}
		if err := validTopicName(pkt.Will.Topic); err != nil {
			e.fail(fmt.Errorf("will topic: %w", err))
			return
		}
	}

	e.header.Text(packets.ProtocolName).
		Byte(packets.V5).
		Byte(pkt.connectFlags()).
		Uint16(pkt.KeepAlive)

	props := e.properties()
	p := &pkt.Properties
	putUint32(props, SessionExpiryIntervalProp, p.SessionExpiryInterval, 0)
	putUint16(props, ReceiveMaximumProp, p.ReceiveMaximum, 1)
	putUint32(props, MaximumPacketSizeProp, p.MaximumPacketSize, 1)
	putUint16(props, TopicAliasMaximumProp, p.TopicAliasMaximum, 0)
	putBool(props, RequestResponseInfoProp, p.RequestResponseInfo)
	putBool(props, RequestProblemInfoProp, p.RequestProblemInfo)
	putUser(props, p.User)
	putText(props, AuthMethodProp, p.AuthMethod)
	putBinary(props, AuthDataProp, p.AuthData)

	e.payload.Text(pkt.ClientID)
	if w := pkt.Will; w != nil {
		wp := codec.NewWriter()
		defer wp.Release()
		putUint32(wp, WillDelayIntervalProp, w.Properties.WillDelayInterval, 0)
		putByte(wp, PayloadFormatProp, w.Properties.PayloadFormat, 1)
		putUint32(wp, MessageExpiryProp, w.Properties.MessageExpiry, 0)
		putText(wp, ContentTypeProp, w.Properties.ContentType)
		putText(wp, ResponseTopicProp, w.Properties.ResponseTopic)
		putBinary(wp, CorrelationDataProp, w.Properties.CorrelationData)
		putUser(wp, w.Properties.User)
		e.payload.AttachLengthPrefixed(wp).
			Text(w.Topic).
			Binary(w.Payload)
	}
	if pkt.Username != nil {
		e.payload.Text(*pkt.Username)
	}
	if pkt.Password != nil {
		e.payload.Binary(pkt.Password)
	}
}

func (pkt *Connect) decode(r *codec.Reader, _ byte) error {
	name, err := r.Text()
	if err != nil {
		return fmt.Errorf("protocol name: %w", err)
	}
	if name != packets.ProtocolName {
		return fmt.Errorf("%w: %q", packets.ErrProtocolName, name)
	}
	version, err := r.Byte()
	if err != nil {
		return fmt.Errorf("protocol version: %w", err)
	}
	if version != packets.V5 {
		return fmt.Errorf("%w: %d", packets.ErrProtocolVersion, version)
	}

	flags, err := r.Byte()
	if err != nil {
		return fmt.Errorf("connect flags: %w", err)
	}
	if flags&connectReserved != 0 {
		return fmt.Errorf("%w: reserved bit set", packets.ErrInvalidConnectFlags)
	}
	willQoS := (flags >> connectWillQoSShift) & 0x03
	willRetain := flags&connectWillRetain != 0
	hasWill := flags&connectWill != 0
	if willQoS > packets.QoS2 {
		return fmt.Errorf("%w: will qos %d", packets.ErrInvalidQoS, willQoS)
	}
	if !hasWill && (willQoS != 0 || willRetain) {
		return fmt.Errorf("%w: will qos or retain without will flag", packets.ErrInvalidConnectFlags)
	}
	pkt.CleanStart = flags&connectCleanStart != 0

	if pkt.KeepAlive, err = r.Uint16(); err != nil {
		return fmt.Errorf("keep alive: %w", err)
	}
	if err := pkt.Properties.decode(r); err != nil {
		return err
	}

	if pkt.ClientID, err = r.Text(); err != nil {
		return fmt.Errorf("client identifier: %w", err)
	}
	if hasWill {
		w := &Will{QoS: willQoS, Retain: willRetain}
		if err := w.Properties.decode(r); err != nil {
			return err
		}
		if w.Topic, err = r.Text(); err != nil {
			return fmt.Errorf("will topic: %w", err)
		}
		if err := validTopicName(w.Topic); err != nil {
			return fmt.Errorf("will topic: %w", err)
		}
		if w.Payload, err = r.Binary(); err != nil {
			return fmt.Errorf("will payload: %w", err)
		}
		pkt.Will = w
	}
	if flags&connectUsername != 0 {
		username, err := r.Text()
		if err != nil {
			return fmt.Errorf("username: %w", err)
		}
		pkt.Username = &username
	}
	if flags&connectPassword != 0 {
		if pkt.Password, err = r.Binary(); err != nil {
			return fmt.Errorf("password: %w", err)
		}
	}
	return nil
}

func (p *ConnectProperties) decode(r *codec.Reader) error {
	return readProperties(r, func(id byte) error {
		switch id {
		case SessionExpiryIntervalProp:
			return setOnce(&p.SessionExpiryInterval, id, r.Uint32, nil)
		case ReceiveMaximumProp:
			return setOnce(&p.ReceiveMaximum, id, r.Uint16, nonZero16)
		case MaximumPacketSizeProp:
			return setOnce(&p.MaximumPacketSize, id, r.Uint32, nonZero32)
		case TopicAliasMaximumProp:
			return setOnce(&p.TopicAliasMaximum, id, r.Uint16, nil)
		case RequestResponseInfoProp:
			return setOnce(&p.RequestResponseInfo, id, r.Bool, nil)
		case RequestProblemInfoProp:
			return setOnce(&p.RequestProblemInfo, id, r.Bool, nil)
		case UserProp:
			return readUser(r, &p.User)
		case AuthMethodProp:
			return setOnce(&p.AuthMethod, id, r.Text, nil)
		case AuthDataProp:
			return setBinaryOnce(&p.AuthData, id, r)
		default:
			return unknownProperty(id, ConnectType)
		}
	})
}

func (p *WillProperties) decode(r *codec.Reader) error {
	return readProperties(r, func(id byte) error {
		switch id {
		case WillDelayIntervalProp:
			return setOnce(&p.WillDelayInterval, id, r.Uint32, nil)
		case PayloadFormatProp:
			return setOnce(&p.PayloadFormat, id, r.Byte, zeroOrOne)
		case MessageExpiryProp:
			return setOnce(&p.MessageExpiry, id, r.Uint32, nil)
		case ContentTypeProp:
			return setOnce(&p.ContentType, id, r.Text, nil)
		case ResponseTopicProp:
			return setOnce(&p.ResponseTopic, id, r.Text, nil)
		case CorrelationDataProp:
			return setBinaryOnce(&p.CorrelationData, id, r)
		case UserProp:
			return readUser(r, &p.User)
		default:
			return fmt.Errorf("%w: %s in will properties", packets.ErrUnknownProperty, PropertyName(id))
		}
	})
}
