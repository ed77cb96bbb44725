// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

// BodyProcessor consumes the bytes of a HTTP message body and reports them
// back through callbacks. The two implementations in this package,
// FixedLenProcessor and ChunkedProcessor, share this single contract; no
// further dispatch is needed since there are only ever these two cases
// (see spec.md §9, "Body processor polymorphism").
type BodyProcessor interface {
	// Process consumes as much of chunk as the body framing allows and
	// returns the number of bytes consumed, or -1 if an error occurred
	// (reported through the OnError callback). allowLF controls whether a
	// bare LF is an acceptable line terminator inside the body framing
	// (chunk-size lines and the line ending after each chunk's data);
	// FixedLenProcessor ignores it since a fixed-length body has no internal
	// line structure.
	Process(chunk []byte, allowLF bool) int

	// OnData registers the callback invoked with each contiguous run of
	// body payload bytes as it becomes available.
	OnData(func(chunk []byte))
	// OnError registers the callback invoked when Process fails: on a
	// framing error, or with EDone when Process is called after the body
	// has already finished.
	OnError(func(err error))
	// OnFinished registers the callback invoked exactly once when the body
	// has been fully consumed.
	OnFinished(func())
}

// callbacks groups the three output channels shared by both body processor
// implementations, mirroring python_http_parser's
// body.BodyProcessorCallbacks typed dict.
type callbacks struct {
	onData     func(chunk []byte)
	onError    func(err error)
	onFinished func()
}

func (c *callbacks) OnData(fn func(chunk []byte)) { c.onData = fn }
func (c *callbacks) OnError(fn func(err error))   { c.onError = fn }
func (c *callbacks) OnFinished(fn func())         { c.onFinished = fn }

func (c *callbacks) emitData(chunk []byte) {
	if c.onData != nil {
		cp := make([]byte, len(chunk))
		copy(cp, chunk)
		c.onData(cp)
	}
}

func (c *callbacks) emitError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *callbacks) emitFinished() {
	if c.onFinished != nil {
		c.onFinished()
	}
}
