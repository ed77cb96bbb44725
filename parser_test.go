// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageParserRequestWithFixedLenBody(t *testing.T) {
	p := NewMessageParser(MessageRequest, Normal, DefaultLimits())

	var method, uri string
	var ver HTTPVersion
	headers := map[string]string{}
	var curName string
	var bodyGot []byte
	msgComplete := false

	p.On(EventReqMethod, func(args ...interface{}) { method = string(args[0].([]byte)) })
	p.On(EventReqURI, func(args ...interface{}) { uri = string(args[0].([]byte)) })
	p.On(EventVersion, func(args ...interface{}) { ver = args[0].(HTTPVersion) })
	p.On(EventHeaderName, func(args ...interface{}) { curName = string(args[0].([]byte)) })
	p.On(EventHeaderValue, func(args ...interface{}) { headers[curName] = string(args[0].([]byte)) })
	p.On(EventData, func(args ...interface{}) { bodyGot = append(bodyGot, args[0].([]byte)...) })
	p.On(EventHeadersComplete, func(args ...interface{}) {
		p.SetHasBody(true)
		p.SetBodyProcessor(NewFixedLenProcessor(5))
	})
	p.On(EventMessageComplete, func(args ...interface{}) { msgComplete = true })

	input := []byte("GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\nhello")
	n := p.Process(input)

	assert.Equal(t, len(input), n)
	assert.Equal(t, "GET", method)
	assert.Equal(t, "/index.html", uri)
	assert.Equal(t, HTTPVersion{Major: 1, Minor: 1}, ver)
	assert.Equal(t, "example.com", headers["Host"])
	assert.Equal(t, "hello", string(bodyGot))
	assert.True(t, msgComplete)
	assert.True(t, p.Finished())
}

func TestMessageParserRequestSplitByteAtATime(t *testing.T) {
	p := NewMessageParser(MessageRequest, Normal, DefaultLimits())

	var method, uri string
	var bodyGot []byte
	msgComplete := false

	p.On(EventReqMethod, func(args ...interface{}) { method = string(args[0].([]byte)) })
	p.On(EventReqURI, func(args ...interface{}) { uri = string(args[0].([]byte)) })
	p.On(EventData, func(args ...interface{}) { bodyGot = append(bodyGot, args[0].([]byte)...) })
	p.On(EventHeadersComplete, func(args ...interface{}) {
		p.SetHasBody(true)
		p.SetBodyProcessor(NewFixedLenProcessor(2))
	})
	p.On(EventMessageComplete, func(args ...interface{}) { msgComplete = true })

	input := []byte("GET / HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi")
	// A lone CR at the start of a line is left unconsumed until its LF
	// arrives, so the caller keeps the unconsumed suffix and prepends it to
	// the next byte.
	var pending []byte
	total := 0
	for _, b := range input {
		pending = append(pending, b)
		n := p.Process(pending)
		if !assert.GreaterOrEqual(t, n, 0) {
			break
		}
		pending = pending[n:]
		total += n
	}

	assert.Equal(t, len(input), total)
	assert.Empty(t, pending)
	assert.Equal(t, "GET", method)
	assert.Equal(t, "/", uri)
	assert.Equal(t, "hi", string(bodyGot))
	assert.True(t, msgComplete)
}

func TestMessageParserResponseWithoutBody(t *testing.T) {
	p := NewMessageParser(MessageResponse, Normal, DefaultLimits())

	var ver HTTPVersion
	var status int
	var reason string
	msgComplete := false

	p.On(EventVersion, func(args ...interface{}) { ver = args[0].(HTTPVersion) })
	p.On(EventStatusCode, func(args ...interface{}) { status = args[0].(int) })
	p.On(EventReason, func(args ...interface{}) { reason = string(args[0].([]byte)) })
	p.On(EventMessageComplete, func(args ...interface{}) { msgComplete = true })

	input := []byte("HTTP/1.1 204 No Content\r\nConnection: close\r\n\r\n")
	n := p.Process(input)

	assert.Equal(t, len(input), n)
	assert.Equal(t, HTTPVersion{Major: 1, Minor: 1}, ver)
	assert.Equal(t, 204, status)
	assert.Equal(t, "No Content", reason)
	assert.True(t, msgComplete)
}

func TestMessageParserStrictModeRejectsBareLF(t *testing.T) {
	p := NewMessageParser(MessageRequest, Strict, DefaultLimits())

	var gotErr error
	p.On(EventError, func(args ...interface{}) { gotErr = args[0].(error) })

	n := p.Process([]byte("GET / HTTP/1.1\n"))

	assert.Equal(t, -1, n)
	pe, ok := AsParseError(gotErr)
	assert.True(t, ok)
	assert.Equal(t, ENewline, pe.Code)

	// Once errored, the parser absorbs all further input.
	n2 := p.Process([]byte("more bytes"))
	assert.Equal(t, -1, n2)
}

func TestMessageParserNormalModeAllowsBareLF(t *testing.T) {
	p := NewMessageParser(MessageRequest, Normal, DefaultLimits())

	msgComplete := false
	p.On(EventMessageComplete, func(args ...interface{}) { msgComplete = true })

	input := []byte("GET / HTTP/1.1\nHost: x\n\n")
	n := p.Process(input)

	assert.Equal(t, len(input), n)
	assert.True(t, msgComplete)
}

func TestMessageParserChunkedBody(t *testing.T) {
	p := NewMessageParser(MessageRequest, Normal, DefaultLimits())

	var bodyGot []byte
	msgComplete := false

	p.On(EventData, func(args ...interface{}) { bodyGot = append(bodyGot, args[0].([]byte)...) })
	p.On(EventHeadersComplete, func(args ...interface{}) {
		p.SetHasBody(true)
		p.SetBodyProcessor(NewChunkedProcessor(DefaultChunkLimits()))
	})
	p.On(EventMessageComplete, func(args ...interface{}) { msgComplete = true })

	input := []byte("POST /upload HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n4\r\nWiki\r\n0\r\n\r\n")
	n := p.Process(input)

	assert.Equal(t, len(input), n)
	assert.Equal(t, "Wiki", string(bodyGot))
	assert.True(t, msgComplete)
}

func TestMessageParserForwardsBodyProcessorError(t *testing.T) {
	p := NewMessageParser(MessageRequest, Normal, DefaultLimits())

	var gotErr error
	p.On(EventError, func(args ...interface{}) { gotErr = args[0].(error) })
	p.On(EventHeadersComplete, func(args ...interface{}) {
		p.SetHasBody(true)
		p.SetBodyProcessor(NewChunkedProcessor(DefaultChunkLimits()))
	})

	input := []byte("POST /upload HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\nzz\r\n")
	n := p.Process(input)

	assert.Equal(t, -1, n)
	pe, ok := AsParseError(gotErr)
	assert.True(t, ok)
	assert.Equal(t, EChunkSize, pe.Code)
}

func TestMessageParserLenientModeAcceptsLowercaseVersion(t *testing.T) {
	p := NewMessageParser(MessageRequest, Lenient, DefaultLimits())

	var ver HTTPVersion
	p.On(EventVersion, func(args ...interface{}) { ver = args[0].(HTTPVersion) })

	n := p.Process([]byte("GET / http/1.1\r\n\r\n"))

	assert.Equal(t, len("GET / http/1.1\r\n\r\n"), n)
	assert.Equal(t, HTTPVersion{Major: 1, Minor: 1}, ver)
}

func TestEqualFoldHeaderNames(t *testing.T) {
	assert.True(t, EqualFold([]byte("Content-Length"), []byte("content-length")))
	assert.False(t, EqualFold([]byte("Content-Length"), []byte("Content-Type")))
}

func TestMessageParserMissingBodyProcessorReportsError(t *testing.T) {
	p := NewMessageParser(MessageRequest, Normal, DefaultLimits())

	var gotErr error
	p.On(EventError, func(args ...interface{}) { gotErr = args[0].(error) })
	p.On(EventHeadersComplete, func(args ...interface{}) {
		p.SetHasBody(true) // deliberately omit SetBodyProcessor
	})

	n := p.Process([]byte("GET / HTTP/1.1\r\n\r\n"))

	assert.Equal(t, -1, n)
	pe, ok := AsParseError(gotErr)
	assert.True(t, ok)
	assert.Equal(t, EBodyProcessor, pe.Code)
}
