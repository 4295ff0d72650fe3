// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package packets provides constants, errors and types shared by the MQTT
// packet codecs. The MQTT 5.0 packets live in the v5 package.
package packets

import "fmt"

// Protocol name and version carried by CONNECT.
const (
	ProtocolName      = "MQTT"
	V5           byte = 0x05
)

// Packet type constants. The value is the high nibble of the fixed header.
const (
	ConnectType byte = iota + 1 // 0 is reserved
	ConnAckType
	PublishType
	PubAckType
	PubRecType
	PubRelType
	PubCompType
	SubscribeType
	SubAckType
	UnsubscribeType
	UnsubAckType
	PingReqType
	PingRespType
	DisconnectType
	AuthType
)

// PacketNames maps packet type constants to string names.
var PacketNames = map[byte]string{
	ConnectType:     "CONNECT",
	ConnAckType:     "CONNACK",
	PublishType:     "PUBLISH",
	PubAckType:      "PUBACK",
	PubRecType:      "PUBREC",
	PubRelType:      "PUBREL",
	PubCompType:     "PUBCOMP",
	SubscribeType:   "SUBSCRIBE",
	SubAckType:      "SUBACK",
	UnsubscribeType: "UNSUBSCRIBE",
	UnsubAckType:    "UNSUBACK",
	PingReqType:     "PINGREQ",
	PingRespType:    "PINGRESP",
	DisconnectType:  "DISCONNECT",
	AuthType:        "AUTH",
}

// TypeName returns the name of a packet type, or a placeholder for
// reserved and out of range values.
func TypeName(t byte) string {
	if name, ok := PacketNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RESERVED(%d)", t)
}

// Quality of service levels.
const (
	QoS0 byte = iota
	QoS1
	QoS2
)

// User represents a user property key-value pair.
type User struct {
	Key, Value string
}

// Resetter is implemented by packets that can be returned to a pool.
type Resetter interface {
	Reset()
}
