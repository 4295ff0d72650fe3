// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package v5

import (
	"errors"
	"fmt"
	"io"

	"github.com/absmach/mqttwire/core/packets"
)

const (
	scannerBufSize = 4096
	maxEmptyReads  = 100
)

// Scanner reads a stream of packets from an io.Reader, buffering until a
// whole packet is available. It is not safe for concurrent use.
//
//	s := v5.NewScanner(conn, v5.DefaultDecoder)
//	for s.Scan() {
//		handle(s.Packet())
//	}
//	if err := s.Err(); err != nil {
//		...
//	}
type Scanner struct {
	r     io.Reader
	dec   Decoder
	buf   []byte
	start int
	end   int
	eof   bool

	pkt Packet
	raw []byte
	err error
}

// NewScanner returns a Scanner decoding packets from r with d.
func NewScanner(r io.Reader, d Decoder) *Scanner {
	return &Scanner{r: r, dec: d, buf: make([]byte, scannerBufSize)}
}

// Scan advances to the next packet. It returns false at the end of the
// stream or on the first error.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for {
		pkt, n, err := s.dec.Decode(s.buf[s.start:s.end])
		if err == nil {
			s.pkt = pkt
			s.raw = s.buf[s.start : s.start+n]
			s.start += n
			return true
		}
		if !errors.Is(err, packets.ErrNeedMoreData) {
			s.err = err
			return false
		}
		if s.eof {
			if s.start < s.end {
				s.err = fmt.Errorf("%w: %d bytes of partial packet", io.ErrUnexpectedEOF, s.end-s.start)
			}
			return false
		}
		if err := s.fill(); err != nil {
			s.err = err
			return false
		}
	}
}

// fill moves unread bytes to the front of the buffer, grows it when full
// and reads once from the underlying reader.
func (s *Scanner) fill() error {
	if s.start > 0 {
		s.end = copy(s.buf, s.buf[s.start:s.end])
		s.start = 0
	}
	if s.end == len(s.buf) {
		grown := make([]byte, 2*len(s.buf))
		copy(grown, s.buf[:s.end])
		s.buf = grown
	}
	var n int
	var err error
	for i := 0; n == 0 && err == nil; i++ {
		if i == maxEmptyReads {
			return io.ErrNoProgress
		}
		n, err = s.r.Read(s.buf[s.end:])
	}
	s.end += n
	switch {
	case errors.Is(err, io.EOF):
		s.eof = true
	case err != nil:
		return err
	}
	return nil
}

// Packet returns the packet produced by the last successful Scan.
func (s *Scanner) Packet() Packet {
	return s.pkt
}

// Bytes returns the wire bytes of the last packet. The slice is only valid
// until the next call to Scan.
func (s *Scanner) Bytes() []byte {
	return s.raw
}

// Err returns the first error other than io.EOF.
func (s *Scanner) Err() error {
	return s.err
}
