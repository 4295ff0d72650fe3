// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

// Reset clears all fields in the Connect packet for reuse.
func (pkt *Connect) Reset() { *pkt = Connect{} }

// Reset clears all fields in the ConnAck packet for reuse.
func (pkt *ConnAck) Reset() { *pkt = ConnAck{} }

// Reset clears all fields in the Publish packet for reuse. The backing
// arrays of User and SubscriptionIdentifiers are kept.
func (pkt *Publish) Reset() {
	user := pkt.Properties.User[:0]
	subIDs := pkt.Properties.SubscriptionIdentifiers[:0]
	*pkt = Publish{}
	if cap(user) > 0 {
		pkt.Properties.User = user
	}
	if cap(subIDs) > 0 {
		pkt.Properties.SubscriptionIdentifiers = subIDs
	}
}

// Reset clears all fields in the PubAck packet for reuse.
func (pkt *PubAck) Reset() { *pkt = PubAck{} }

// Reset clears all fields in the PubRec packet for reuse.
func (pkt *PubRec) Reset() { *pkt = PubRec{} }

// Reset clears all fields in the PubRel packet for reuse.
func (pkt *PubRel) Reset() { *pkt = PubRel{} }

// Reset clears all fields in the PubComp packet for reuse.
func (pkt *PubComp) Reset() { *pkt = PubComp{} }

// Reset clears all fields in the Subscribe packet for reuse.
func (pkt *Subscribe) Reset() { *pkt = Subscribe{} }

// Reset clears all fields in the SubAck packet for reuse.
func (pkt *SubAck) Reset() { *pkt = SubAck{} }

// Reset clears all fields in the Unsubscribe packet for reuse.
func (pkt *Unsubscribe) Reset() { *pkt = Unsubscribe{} }

// Reset clears all fields in the UnSubAck packet for reuse.
func (pkt *UnSubAck) Reset() { *pkt = UnSubAck{} }

func (pkt *PingReq) Reset() {}

func (pkt *PingResp) Reset() {}

// Reset clears all fields in the Disconnect packet for reuse.
func (pkt *Disconnect) Reset() { *pkt = Disconnect{} }

// Reset clears all fields in the Auth packet for reuse.
func (pkt *Auth) Reset() { *pkt = Auth{} }
