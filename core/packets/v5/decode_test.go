// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5_test

import (
	"testing"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/absmach/mqttwire/core/packets"
	v5 "github.com/absmach/mqttwire/core/packets/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		desc  string
		data  []byte
		cause error
	}{
		{
			desc:  "reserved packet type",
			data:  []byte{0x00, 0x00},
			cause: packets.ErrUnknownPacketType,
		},
		{
			desc:  "five byte remaining length",
			data:  []byte{0x30, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F},
			cause: codec.ErrMalformedVBI,
		},
		{
			desc:  "pubrel with zero flags",
			data:  []byte{0x60, 0x02, 0x00, 0x01},
			cause: packets.ErrInvalidFlags,
		},
		{
			desc:  "puback with flags",
			data:  []byte{0x41, 0x02, 0x00, 0x01},
			cause: packets.ErrInvalidFlags,
		},
		{
			desc:  "publish with qos 3",
			data:  []byte{0x36, 0x05, 0x00, 0x01, 'a', 0x00, 0x01},
			cause: packets.ErrInvalidQoS,
		},
		{
			desc:  "publish with dup on qos 0",
			data:  []byte{0x38, 0x04, 0x00, 0x01, 'a', 0x00},
			cause: packets.ErrInvalidFlags,
		},
		{
			desc:  "publish with wildcard topic",
			data:  []byte{0x30, 0x04, 0x00, 0x01, '#', 0x00},
			cause: packets.ErrInvalidTopic,
		},
		{
			desc:  "publish with zero topic alias",
			data:  []byte{0x30, 0x06, 0x00, 0x00, 0x03, 0x23, 0x00, 0x00},
			cause: packets.ErrInvalidPropertyValue,
		},
		{
			desc:  "publish with zero subscription identifier",
			data:  []byte{0x30, 0x06, 0x00, 0x01, 'a', 0x02, 0x0B, 0x00},
			cause: packets.ErrInvalidPropertyValue,
		},
		{
			desc:  "publish qos 1 with zero packet identifier",
			data:  []byte{0x32, 0x06, 0x00, 0x01, 'a', 0x00, 0x00, 0x00},
			cause: packets.ErrZeroPacketID,
		},
		{
			desc:  "duplicate session expiry in connack",
			data:  []byte{0x20, 0x0D, 0x00, 0x00, 0x0A, 0x11, 0x00, 0x00, 0x00, 0x01, 0x11, 0x00, 0x00, 0x00, 0x02},
			cause: packets.ErrDuplicateProperty,
		},
		{
			desc:  "unknown property identifier",
			data:  []byte{0x40, 0x06, 0x00, 0x01, 0x00, 0x02, 0x7F, 0x00},
			cause: packets.ErrUnknownProperty,
		},
		{
			desc:  "property not allowed in puback",
			data:  []byte{0x40, 0x06, 0x00, 0x01, 0x00, 0x02, 0x01, 0x00},
			cause: packets.ErrUnknownProperty,
		},
		{
			desc:  "connack with zero receive maximum",
			data:  []byte{0x20, 0x06, 0x00, 0x00, 0x03, 0x21, 0x00, 0x00},
			cause: packets.ErrInvalidPropertyValue,
		},
		{
			desc:  "connack with maximum qos 2",
			data:  []byte{0x20, 0x05, 0x00, 0x00, 0x02, 0x24, 0x02},
			cause: packets.ErrInvalidPropertyValue,
		},
		{
			desc:  "connack with retain available 2",
			data:  []byte{0x20, 0x05, 0x00, 0x00, 0x02, 0x25, 0x02},
			cause: codec.ErrInvalidBool,
		},
		{
			desc:  "connack with reserved acknowledge flags",
			data:  []byte{0x20, 0x03, 0x02, 0x00, 0x00},
			cause: packets.ErrInvalidAckFlags,
		},
		{
			desc:  "property length beyond packet",
			data:  []byte{0x40, 0x04, 0x00, 0x01, 0x00, 0x05},
			cause: codec.ErrBufferTooShort,
		},
		{
			desc:  "puback with zero packet identifier",
			data:  []byte{0x40, 0x02, 0x00, 0x00},
			cause: packets.ErrZeroPacketID,
		},
		{
			desc:  "unsuback with zero packet identifier",
			data:  []byte{0xB0, 0x04, 0x00, 0x00, 0x00, 0x00},
			cause: packets.ErrZeroPacketID,
		},
		{
			desc:  "subscribe without subscriptions",
			data:  []byte{0x82, 0x03, 0x00, 0x01, 0x00},
			cause: packets.ErrEmptyPayload,
		},
		{
			desc:  "subscribe with reserved option bits",
			data:  []byte{0x82, 0x07, 0x00, 0x01, 0x00, 0x00, 0x01, 'a', 0xC0},
			cause: packets.ErrInvalidOptions,
		},
		{
			desc:  "subscribe with retain handling 3",
			data:  []byte{0x82, 0x07, 0x00, 0x01, 0x00, 0x00, 0x01, 'a', 0x30},
			cause: packets.ErrInvalidOptions,
		},
		{
			desc:  "subscribe with maximum qos 3",
			data:  []byte{0x82, 0x07, 0x00, 0x01, 0x00, 0x00, 0x01, 'a', 0x03},
			cause: packets.ErrInvalidQoS,
		},
		{
			desc:  "unsubscribe without topics",
			data:  []byte{0xA2, 0x03, 0x00, 0x01, 0x00},
			cause: packets.ErrEmptyPayload,
		},
		{
			desc:  "suback without reason codes",
			data:  []byte{0x90, 0x03, 0x00, 0x01, 0x00},
			cause: packets.ErrEmptyPayload,
		},
		{
			desc:  "pingreq with trailing data",
			data:  []byte{0xC0, 0x01, 0x00},
			cause: packets.ErrTrailingData,
		},
		{
			desc:  "connect with wrong protocol name",
			data:  []byte{0x10, 0x0D, 0x00, 0x04, 'M', 'Q', 'T', 'X', 0x05, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00},
			cause: packets.ErrProtocolName,
		},
		{
			desc:  "connect with protocol version 4",
			data:  []byte{0x10, 0x0D, 0x00, 0x04, 'M', 'Q', 'T', 'T', 0x04, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00},
			cause: packets.ErrProtocolVersion,
		},
		{
			desc:  "connect with reserved flag",
			data:  []byte{0x10, 0x0D, 0x00, 0x04, 'M', 'Q', 'T', 'T', 0x05, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00},
			cause: packets.ErrInvalidConnectFlags,
		},
		{
			desc:  "connect with will qos but no will flag",
			data:  []byte{0x10, 0x0D, 0x00, 0x04, 'M', 'Q', 'T', 'T', 0x05, 0x0A, 0x00, 0x00, 0x00, 0x00, 0x00},
			cause: packets.ErrInvalidConnectFlags,
		},
		{
			desc:  "connect with will qos 3",
			data:  []byte{0x10, 0x0D, 0x00, 0x04, 'M', 'Q', 'T', 'T', 0x05, 0x1C, 0x00, 0x00, 0x00, 0x00, 0x00},
			cause: packets.ErrInvalidQoS,
		},
		{
			desc:  "text with null character",
			data:  []byte{0x30, 0x05, 0x00, 0x02, 'a', 0x00, 0x00},
			cause: codec.ErrInvalidUTF8,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			pkt, n, err := v5.Decode(tc.data)
			assert.ErrorIs(t, err, packets.ErrMalformedPacket)
			assert.ErrorIs(t, err, tc.cause)
			assert.NotErrorIs(t, err, packets.ErrNeedMoreData)
			assert.Nil(t, pkt)
			assert.Zero(t, n)
		})
	}
}

func TestDecodeNeedMoreData(t *testing.T) {
	pkt := &v5.Connect{
		CleanStart: true,
		ClientID:   "partial",
		Properties: v5.ConnectProperties{SessionExpiryInterval: ptr(uint32(10))},
		Will:       &v5.Will{Topic: "w", Payload: []byte("bye")},
	}
	raw, err := v5.Encode(pkt, 0)
	require.NoError(t, err)

	for i := 0; i < len(raw); i++ {
		got, n, err := v5.Decode(raw[:i])
		assert.ErrorIs(t, err, packets.ErrNeedMoreData, "prefix of %d bytes", i)
		assert.NotErrorIs(t, err, packets.ErrMalformedPacket)
		assert.Nil(t, got)
		assert.Zero(t, n)
	}
}

func TestDecodeNeedMoreDataLongLength(t *testing.T) {
	_, _, err := v5.Decode([]byte{0x30, 0x80, 0x80})
	assert.ErrorIs(t, err, packets.ErrNeedMoreData)

	_, _, err = v5.Decode([]byte{0x30, 0x80, 0x01, 0x00})
	assert.ErrorIs(t, err, packets.ErrNeedMoreData)
}

func TestDecodeConsumesOnePacket(t *testing.T) {
	first, err := v5.Encode(&v5.PubAck{ID: 1}, 0)
	require.NoError(t, err)
	second, err := v5.Encode(&v5.PingReq{}, 0)
	require.NoError(t, err)

	buf := append(append([]byte{}, first...), second...)
	pkt, n, err := v5.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, len(first), n)
	assert.Equal(t, &v5.PubAck{ID: 1}, pkt)

	pkt, n, err = v5.Decode(buf[n:])
	require.NoError(t, err)
	assert.Equal(t, len(second), n)
	assert.Equal(t, &v5.PingReq{}, pkt)
}

func TestDecodeLenientFlags(t *testing.T) {
	cases := []struct {
		desc string
		data []byte
		pkt  v5.Packet
	}{
		{
			desc: "pubrel with zero flags",
			data: []byte{0x60, 0x02, 0x00, 0x01},
			pkt:  &v5.PubRel{ID: 1},
		},
		{
			desc: "unsuback with flags",
			data: []byte{0xB3, 0x04, 0x00, 0x01, 0x00, 0x00},
			pkt:  &v5.UnSubAck{ID: 1, ReasonCodes: []byte{0x00}},
		},
		{
			desc: "pingresp with flags",
			data: []byte{0xDF, 0x00},
			pkt:  &v5.PingResp{},
		},
	}

	lenient := v5.Decoder{}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			_, _, err := v5.Decode(tc.data)
			assert.ErrorIs(t, err, packets.ErrInvalidFlags)

			got, n, err := lenient.Decode(tc.data)
			require.NoError(t, err)
			assert.Equal(t, len(tc.data), n)
			assert.Equal(t, tc.pkt, got)
		})
	}
}

func TestDecodeLenientStillRejectsPublishQoS3(t *testing.T) {
	_, _, err := v5.Decoder{}.Decode([]byte{0x36, 0x05, 0x00, 0x01, 'a', 0x00, 0x01})
	assert.ErrorIs(t, err, packets.ErrInvalidQoS)
}

func TestDecodeMaxPacketSize(t *testing.T) {
	raw, err := v5.Encode(&v5.Publish{TopicName: "a", Payload: make([]byte, 100)}, 0)
	require.NoError(t, err)

	d := v5.Decoder{StrictFlags: true, MaxPacketSize: 64}
	_, _, err = d.Decode(raw)
	assert.ErrorIs(t, err, packets.ErrPacketTooLarge)

	_, _, err = d.Decode(raw[:3])
	assert.ErrorIs(t, err, packets.ErrPacketTooLarge)

	d.MaxPacketSize = uint32(len(raw))
	_, n, err := d.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
}

func TestDecodeAllocator(t *testing.T) {
	var allocated []byte
	d := v5.Decoder{
		StrictFlags: true,
		New: func(packetType byte) v5.Packet {
			allocated = append(allocated, packetType)
			return v5.NewPacket(packetType)
		},
	}
	_, _, err := d.Decode([]byte{0xC0, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte{v5.PingReqType}, allocated)
}
