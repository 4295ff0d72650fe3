// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"fmt"
	"math"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
)

// Property identifiers.
const (
	PayloadFormatProp          byte = 1
	MessageExpiryProp          byte = 2
	ContentTypeProp            byte = 3
	ResponseTopicProp          byte = 8
	CorrelationDataProp        byte = 9
	SubscriptionIdentifierProp byte = 11
	SessionExpiryIntervalProp  byte = 17
	AssignedClientIDProp       byte = 18
	ServerKeepAliveProp        byte = 19
	AuthMethodProp             byte = 21
	AuthDataProp               byte = 22
	RequestProblemInfoProp     byte = 23
	WillDelayIntervalProp      byte = 24
	RequestResponseInfoProp    byte = 25
	ResponseInfoProp           byte = 26
	ServerReferenceProp        byte = 28
	ReasonStringProp           byte = 31
	ReceiveMaximumProp         byte = 33
	TopicAliasMaximumProp      byte = 34
	TopicAliasProp             byte = 35
	MaximumQOSProp             byte = 36
	RetainAvailableProp        byte = 37
	UserProp                   byte = 38
	MaximumPacketSizeProp      byte = 39
	WildcardSubAvailableProp   byte = 40
	SubIDAvailableProp         byte = 41
	SharedSubAvailableProp     byte = 42
)

var propNames = map[byte]string{
	PayloadFormatProp:          "Payload Format Indicator",
	MessageExpiryProp:          "Message Expiry Interval",
	ContentTypeProp:            "Content Type",
	ResponseTopicProp:          "Response Topic",
	CorrelationDataProp:        "Correlation Data",
	SubscriptionIdentifierProp: "Subscription Identifier",
	SessionExpiryIntervalProp:  "Session Expiry Interval",
	AssignedClientIDProp:       "Assigned Client Identifier",
	ServerKeepAliveProp:        "Server Keep Alive",
	AuthMethodProp:             "Authentication Method",
	AuthDataProp:               "Authentication Data",
	RequestProblemInfoProp:     "Request Problem Information",
	WillDelayIntervalProp:      "Will Delay Interval",
	RequestResponseInfoProp:    "Request Response Information",
	ResponseInfoProp:           "Response Information",
	ServerReferenceProp:        "Server Reference",
	ReasonStringProp:           "Reason String",
	ReceiveMaximumProp:         "Receive Maximum",
	TopicAliasMaximumProp:      "Topic Alias Maximum",
	TopicAliasProp:             "Topic Alias",
	MaximumQOSProp:             "Maximum QoS",
	RetainAvailableProp:        "Retain Available",
	UserProp:                   "User Property",
	MaximumPacketSizeProp:      "Maximum Packet Size",
	WildcardSubAvailableProp:   "Wildcard Subscription Available",
	SubIDAvailableProp:         "Subscription Identifier Available",
	SharedSubAvailableProp:     "Shared Subscription Available",
}

// PropertyName returns the name of a property identifier.
func PropertyName(id byte) string {
	if name, ok := propNames[id]; ok {
		return name
	}
	return fmt.Sprintf("property 0x%02X", id)
}

// BasicProperties are the properties carried by acknowledgements:
// PUBACK, PUBREC, PUBREL, PUBCOMP, SUBACK and UNSUBACK.
type BasicProperties struct {
	// ReasonString is a human readable diagnostic.
	ReasonString *string
	User         []User
}

func (p *BasicProperties) encode(e *encoder) {
	e.discardableUser(p.User)
	e.discardableText(ReasonStringProp, p.ReasonString)
}

func (p *BasicProperties) decode(r *codec.Reader, packetType byte) error {
	return readProperties(r, func(id byte) error {
		switch id {
		case ReasonStringProp:
			return setOnce(&p.ReasonString, id, r.Text, nil)
		case UserProp:
			return readUser(r, &p.User)
		default:
			return unknownProperty(id, packetType)
		}
	})
}

// readProperties reads a property block: its length, then identifier and
// value pairs until the block is exhausted. fn consumes the value of each
// identifier.
func readProperties(r *codec.Reader, fn func(id byte) error) error {
	length, err := r.VBI()
	if err != nil {
		return fmt.Errorf("property length: %w", err)
	}
	if err := r.OpenBoundary(int(length)); err != nil {
		return fmt.Errorf("property length %d: %w", length, err)
	}
	for r.Remaining() > 0 {
		id, err := r.Byte()
		if err != nil {
			return err
		}
		if err := fn(id); err != nil {
			return err
		}
	}
	_, err = r.CloseBoundary()
	return err
}

// setOnce stores the value produced by read in *dst. It fails if *dst is
// already set or check rejects the value.
func setOnce[T any](dst **T, id byte, read func() (T, error), check func(T) bool) error {
	if *dst != nil {
		return fmt.Errorf("%w: %s", packets.ErrDuplicateProperty, PropertyName(id))
	}
	v, err := read()
	if err != nil {
		return fmt.Errorf("%s: %w", PropertyName(id), err)
	}
	if check != nil && !check(v) {
		return fmt.Errorf("%w: %s = %v", packets.ErrInvalidPropertyValue, PropertyName(id), v)
	}
	*dst = &v
	return nil
}

// setBinaryOnce is setOnce for Binary Data, where nil means absent.
func setBinaryOnce(dst *[]byte, id byte, r *codec.Reader) error {
	if *dst != nil {
		return fmt.Errorf("%w: %s", packets.ErrDuplicateProperty, PropertyName(id))
	}
	b, err := r.Binary()
	if err != nil {
		return fmt.Errorf("%s: %w", PropertyName(id), err)
	}
	*dst = b
	return nil
}

func readUser(r *codec.Reader, users *[]User) error {
	k, v, err := r.TextPair()
	if err != nil {
		return fmt.Errorf("%s: %w", PropertyName(UserProp), err)
	}
	*users = append(*users, User{Key: k, Value: v})
	return nil
}

func unknownProperty(id, packetType byte) error {
	return fmt.Errorf("%w: %s in %s", packets.ErrUnknownProperty, PropertyName(id), packets.TypeName(packetType))
}

func nonZero16(v uint16) bool { return v != 0 }

func nonZero32(v uint32) bool { return v != 0 }

func zeroOrOne(v byte) bool { return v <= 1 }

func validSubscriptionID(v uint32) bool { return v != 0 && v <= codec.MaxVBI }

func putByte(w *codec.Writer, id byte, v *byte, hi byte) {
	if v != nil {
		w.Byte(id).Uint8In(*v, 0, hi)
	}
}

func putBool(w *codec.Writer, id byte, v *bool) {
	if v != nil {
		w.Byte(id).Bool(*v)
	}
}

func putUint16(w *codec.Writer, id byte, v *uint16, lo uint16) {
	if v != nil {
		w.Byte(id).Uint16In(*v, lo, math.MaxUint16)
	}
}

func putUint32(w *codec.Writer, id byte, v *uint32, lo uint32) {
	if v != nil {
		w.Byte(id).Uint32In(*v, lo, math.MaxUint32)
	}
}

func putSubscriptionID(w *codec.Writer, v uint32) {
	if v == 0 {
		w.Fail(fmt.Errorf("%w: %s must be non-zero", codec.ErrValueOutOfRange, PropertyName(SubscriptionIdentifierProp)))
		return
	}
	w.Byte(SubscriptionIdentifierProp).VBI(v)
}

func putText(w *codec.Writer, id byte, v *string) {
	if v != nil {
		w.Byte(id).Text(*v)
	}
}

func putBinary(w *codec.Writer, id byte, v []byte) {
	if v != nil {
		w.Byte(id).Binary(v)
	}
}

func putUser(w *codec.Writer, users []User) {
	for _, u := range users {
		w.Byte(UserProp).TextPair(u.Key, u.Value)
	}
}
