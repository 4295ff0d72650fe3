// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package pool_test

import (
	"sync"
	"testing"

	"github.com/absmach/mqttwire/core/packets"
	v5 "github.com/absmach/mqttwire/core/packets/v5"
	"github.com/absmach/mqttwire/core/packets/v5/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireEveryType(t *testing.T) {
	for typ := v5.ConnectType; typ <= v5.AuthType; typ++ {
		t.Run(packets.TypeName(typ), func(t *testing.T) {
			pkt := pool.Acquire(typ)
			require.NotNil(t, pkt)
			assert.Equal(t, typ, pkt.Type())
			pool.Release(pkt)
		})
	}
}

func TestAcquireReserved(t *testing.T) {
	assert.Nil(t, pool.Acquire(0))
	assert.Nil(t, pool.Acquire(16))
}

func TestPublishPoolAcquireRelease(t *testing.T) {
	pkt := pool.AcquirePublish()
	pkt.TopicName = "test/topic"
	pkt.Payload = []byte("hello")
	pkt.QoS = 1
	pkt.ID = 123
	pkt.Properties.User = append(pkt.Properties.User, v5.User{Key: "k", Value: "v"})
	pool.ReleasePublish(pkt)

	pkt2 := pool.AcquirePublish()
	defer pool.ReleasePublish(pkt2)
	assert.Empty(t, pkt2.TopicName)
	assert.Nil(t, pkt2.Payload)
	assert.Zero(t, pkt2.QoS)
	assert.Zero(t, pkt2.ID)
	assert.Empty(t, pkt2.Properties.User)
}

func TestPubAckPoolAcquireRelease(t *testing.T) {
	pkt := pool.AcquirePubAck()
	pkt.ID = 9
	pkt.ReasonCode = packets.QuotaExceeded
	pool.ReleasePubAck(pkt)

	pkt2 := pool.AcquirePubAck()
	defer pool.ReleasePubAck(pkt2)
	assert.Zero(t, pkt2.ID)
	assert.Zero(t, pkt2.ReasonCode)
}

func TestDecodeIntoPooledPackets(t *testing.T) {
	d := v5.Decoder{StrictFlags: true, New: pool.Acquire}
	raw, err := v5.Encode(&v5.Publish{QoS: 1, ID: 3, TopicName: "a/b", Payload: []byte("x")}, 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		pkt, n, err := d.Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, len(raw), n)
		pub := pkt.(*v5.Publish)
		assert.Equal(t, "a/b", pub.TopicName)
		assert.Equal(t, []byte("x"), pub.Payload)
		pool.Release(pkt)
	}
}

func TestConcurrentAcquireRelease(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pkt := pool.AcquirePublish()
			pkt.TopicName = "concurrent"
			pool.ReleasePublish(pkt)
		}()
	}
	wg.Wait()
}
