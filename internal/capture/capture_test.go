// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package capture_test

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/absmach/mqttwire/internal/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PINGREQ, PUBACK 7, PINGRESP
var stream = []byte{0xC0, 0x00, 0x40, 0x02, 0x00, 0x07, 0xD0, 0x00}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		desc     string
		write    string
		read     string
		detected string
	}{
		{desc: "plain", write: capture.None, read: capture.None, detected: capture.None},
		{desc: "zstd", write: capture.Zstd, read: capture.Zstd, detected: capture.Zstd},
		{desc: "s2", write: capture.S2, read: capture.S2, detected: capture.S2},
		{desc: "plain detected", write: capture.None, read: capture.Auto, detected: capture.None},
		{desc: "zstd detected", write: capture.Zstd, read: capture.Auto, detected: capture.Zstd},
		{desc: "s2 detected", write: capture.S2, read: capture.Auto, detected: capture.S2},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := capture.NewWriter(&buf, tc.write)
			require.NoError(t, err)
			_, err = w.Write(stream)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.Equal(t, tc.detected, capture.Detect(bufio.NewReader(bytes.NewReader(buf.Bytes()))))

			r, err := capture.NewReader(bytes.NewReader(buf.Bytes()), tc.read)
			require.NoError(t, err)
			defer r.Close()

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, stream, got)
		})
	}
}

func TestUnknownCompression(t *testing.T) {
	_, err := capture.NewReader(bytes.NewReader(stream), "gzip")
	assert.ErrorIs(t, err, capture.ErrUnknownCompression)

	_, err = capture.NewWriter(io.Discard, "lz4")
	assert.ErrorIs(t, err, capture.ErrUnknownCompression)
}

func TestFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.bin.zst")

	w, err := capture.Create(path, capture.Zstd)
	require.NoError(t, err)
	_, err = w.Write(stream)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := capture.Open(path, capture.Auto)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, stream, got)

	_, err = capture.Open(filepath.Join(t.TempDir(), "missing"), capture.None)
	assert.Error(t, err)
}
