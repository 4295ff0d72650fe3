// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package packets

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the packet codecs matches exactly
// one of these with errors.Is.
var (
	// ErrNeedMoreData means the buffer ends before the packet does.
	// The caller should read more bytes and retry.
	ErrNeedMoreData = errors.New("need more data")

	// ErrMalformedPacket means the bytes violate the wire format.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrEncodeRange means a field value cannot be represented on the wire.
	ErrEncodeRange = errors.New("value out of encodable range")

	// ErrPacketTooLarge means the packet exceeds the negotiated maximum
	// packet size even after all discardable properties were dropped.
	ErrPacketTooLarge = errors.New("packet too large")
)

// Causes of malformed packets and encode range failures. Each is reported
// wrapped together with its class.
var (
	ErrUnknownPacketType    = errors.New("unknown packet type")
	ErrInvalidFlags         = errors.New("invalid fixed header flags")
	ErrDuplicateProperty    = errors.New("duplicate property")
	ErrUnknownProperty      = errors.New("property not allowed for packet type")
	ErrInvalidPropertyValue = errors.New("invalid property value")
	ErrProtocolName         = errors.New("invalid protocol name")
	ErrProtocolVersion      = errors.New("unsupported protocol version")
	ErrInvalidConnectFlags  = errors.New("invalid connect flags")
	ErrInvalidAckFlags      = errors.New("invalid acknowledge flags")
	ErrZeroPacketID         = errors.New("packet identifier must be non-zero")
	ErrInvalidQoS           = errors.New("invalid qos level")
	ErrInvalidTopic         = errors.New("invalid topic")
	ErrInvalidOptions       = errors.New("invalid subscription options")
	ErrEmptyPayload         = errors.New("payload must not be empty")
	ErrTrailingData         = errors.New("trailing data after packet")
)

// Malformed wraps cause so that it matches both ErrMalformedPacket and cause.
func Malformed(cause error) error {
	if errors.Is(cause, ErrMalformedPacket) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrMalformedPacket, cause)
}

// EncodeRange wraps cause so that it matches both ErrEncodeRange and cause.
func EncodeRange(cause error) error {
	if errors.Is(cause, ErrEncodeRange) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrEncodeRange, cause)
}
