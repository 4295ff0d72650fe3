// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package pool recycles decoded packets to cut allocations on hot paths.
// Acquire fits v5.Decoder.New:
//
//	d := v5.Decoder{StrictFlags: true, New: pool.Acquire}
package pool

import (
	"sync"

	v5 "github.com/absmach/mqttwire/core/packets/v5"
)

// pools is indexed by packet type; index 0 is unused.
var pools [v5.AuthType + 1]*sync.Pool

func init() {
	for t := v5.ConnectType; t <= v5.AuthType; t++ {
		t := t // per-iteration copy (pre-Go 1.22 loop semantics)
		pools[t] = &sync.Pool{New: func() any { return v5.NewPacket(t) }}
	}
}

// Acquire returns an empty packet of the given type, or nil if the type
// is reserved.
func Acquire(packetType byte) v5.Packet {
	if packetType == 0 || int(packetType) >= len(pools) {
		return nil
	}
	return pools[packetType].Get().(v5.Packet)
}

// Release resets pkt and returns it to its pool. pkt must not be used
// afterwards.
func Release(pkt v5.Packet) {
	if pkt == nil {
		return
	}
	r, ok := pkt.(v5.Resetter)
	if !ok {
		return
	}
	r.Reset()
	pools[pkt.Type()].Put(pkt)
}

// AcquirePublish gets a Publish packet from the pool.
func AcquirePublish() *v5.Publish {
	return Acquire(v5.PublishType).(*v5.Publish)
}

// ReleasePublish returns a Publish packet to the pool.
func ReleasePublish(pkt *v5.Publish) {
	if pkt != nil {
		Release(pkt)
	}
}

// AcquirePubAck gets a PubAck packet from the pool.
func AcquirePubAck() *v5.PubAck {
	return Acquire(v5.PubAckType).(*v5.PubAck)
}

// ReleasePubAck returns a PubAck packet to the pool.
func ReleasePubAck(pkt *v5.PubAck) {
	if pkt != nil {
		Release(pkt)
	}
}
