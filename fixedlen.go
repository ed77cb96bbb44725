// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

// FixedLenProcessor processes a body whose total length is known up front,
// e.g. one declared by a Content-Length header. It has no internal line
// structure: every byte handed to Process up to the declared length is body
// payload.
//
// Grounded on python_http_parser's body.FixedLenProcessor.process.
type FixedLenProcessor struct {
	callbacks

	total     int64
	remaining int64
	done      bool
}

// NewFixedLenProcessor returns a FixedLenProcessor that expects exactly
// length bytes of body. A length of 0 yields a processor that is already
// finished on the first Process call.
func NewFixedLenProcessor(length int64) *FixedLenProcessor {
	return &FixedLenProcessor{total: length, remaining: length}
}

// Len returns the declared total body length.
func (p *FixedLenProcessor) Len() int64 { return p.total }

// Remaining returns the number of body bytes still expected.
func (p *FixedLenProcessor) Remaining() int64 { return p.remaining }

// Finished reports whether the declared length has been fully consumed.
func (p *FixedLenProcessor) Finished() bool { return p.done }

// Process implements BodyProcessor. allowLF is accepted to satisfy the
// interface but ignored, since a fixed-length body has no line-based
// framing to apply it to. Calling Process again after the body has already
// finished reports EDone and returns -1, per spec.md §4.3 and the
// original's DoneError (body.py:105-108).
func (p *FixedLenProcessor) Process(chunk []byte, allowLF bool) int {
	if p.done {
		p.emitError(newErr(EDone, "body processor already finished"))
		return -1
	}
	if p.remaining == 0 {
		p.done = true
		p.emitFinished()
		return 0
	}

	take := int64(len(chunk))
	if take > p.remaining {
		take = p.remaining
	}

	if take > 0 {
		p.emitData(chunk[:take])
		p.remaining -= take
	}

	if p.remaining == 0 {
		p.done = true
		p.emitFinished()
	}

	return int(take)
}
