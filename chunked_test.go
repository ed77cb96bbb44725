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

func TestChunkedProcessorWholeBody(t *testing.T) {
	p := NewChunkedProcessor(DefaultChunkLimits())
	var got []byte
	finished := false
	p.OnData(func(chunk []byte) { got = append(got, chunk...) })
	p.OnFinished(func() { finished = true })

	input := []byte("3\r\nabc\r\n5\r\nhello\r\n0\r\n\r\n")
	n := p.Process(input, true)

	assert.Equal(t, len(input), n)
	assert.Equal(t, "abchello", string(got))
	assert.True(t, finished)
	assert.True(t, p.Finished())
}

func TestChunkedProcessorSplitByteAtATime(t *testing.T) {
	p := NewChunkedProcessor(DefaultChunkLimits())
	var got []byte
	finished := false
	p.OnData(func(chunk []byte) { got = append(got, chunk...) })
	p.OnFinished(func() { finished = true })

	input := []byte("2\r\nhi\r\n0\r\n\r\n")
	for _, b := range input {
		n := p.Process([]byte{b}, true)
		assert.Equal(t, 1, n)
	}

	assert.Equal(t, "hi", string(got))
	assert.True(t, finished)
}

func TestChunkedProcessorExtensions(t *testing.T) {
	p := NewChunkedProcessor(DefaultChunkLimits())
	var got []byte
	p.OnData(func(chunk []byte) { got = append(got, chunk...) })

	n := p.Process([]byte("4;ext=1;foo=bar\r\nWiki\r\n"), true)
	assert.Equal(t, len("4;ext=1;foo=bar\r\nWiki\r\n"), n)
	assert.Equal(t, []string{"ext=1", "foo=bar"}, p.Extensions())
	assert.Equal(t, "Wiki", string(got))

	p.Process([]byte("0\r\n\r\n"), true)
	assert.True(t, p.Finished())
}

func TestChunkedProcessorRejectsTrailerLines(t *testing.T) {
	p := NewChunkedProcessor(DefaultChunkLimits())
	finished := false
	var gotErr error
	p.OnFinished(func() { finished = true })
	p.OnError(func(err error) { gotErr = err })

	input := []byte("0\r\nX-Trailer: value\r\n\r\n")
	n := p.Process(input, true)

	assert.Equal(t, -1, n)
	assert.False(t, finished)
	pe, ok := AsParseError(gotErr)
	assert.True(t, ok)
	assert.Equal(t, EChunk, pe.Code)
}

func TestChunkedProcessorReportsEDoneAfterFinished(t *testing.T) {
	p := NewChunkedProcessor(DefaultChunkLimits())
	var gotErr error
	p.OnError(func(err error) { gotErr = err })

	p.Process([]byte("0\r\n\r\n"), true)
	assert.True(t, p.Finished())

	n := p.Process([]byte("more"), true)
	assert.Equal(t, -1, n)
	pe, ok := AsParseError(gotErr)
	assert.True(t, ok)
	assert.Equal(t, EDone, pe.Code)
}

func TestChunkedProcessorInvalidSizeReportsError(t *testing.T) {
	p := NewChunkedProcessor(DefaultChunkLimits())
	var gotErr error
	p.OnError(func(err error) { gotErr = err })

	n := p.Process([]byte("zz\r\n"), true)

	assert.Equal(t, -1, n)
	pe, ok := AsParseError(gotErr)
	assert.True(t, ok)
	assert.Equal(t, EChunkSize, pe.Code)
}

func TestChunkedProcessorMalformedTerminatorReportsError(t *testing.T) {
	p := NewChunkedProcessor(DefaultChunkLimits())
	var gotErr error
	p.OnError(func(err error) { gotErr = err })

	n := p.Process([]byte("2\r\nhiXX\r\n"), true)

	assert.Equal(t, -1, n)
	pe, ok := AsParseError(gotErr)
	assert.True(t, ok)
	assert.Equal(t, EChunk, pe.Code)
}
