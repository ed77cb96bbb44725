// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

import "fmt"

// Strictness controls how tolerant the parser is of non-conformant byte
// sequences. The levels are ordered: Lenient <= Normal <= Strict.
type Strictness uint8

const (
	// Lenient is reserved for permissive header handling; currently behaves
	// like Normal for newline handling.
	Lenient Strictness = 1
	// Normal is the default strictness: bare LF is accepted as a line
	// terminator.
	Normal Strictness = 2
	// Strict forbids bare LF anywhere; only CRLF is a valid terminator.
	Strict Strictness = 3
)

// allowLF reports whether a bare LF is an acceptable line terminator at
// this strictness level.
func (s Strictness) allowLF() bool {
	return s != Strict
}

// ParserState enumerates the states of a MessageParser's state machine.
type ParserState uint8

const (
	StateEmpty ParserState = iota
	StateDone
	StateHadError
	StateReceivingMethod
	StateReceivingURI
	StateReceivingStatusCode
	StateReceivingReason
	StateParsingVersion
	StateParsingHeaderName
	StateParsingHeaderValue
	StateDoneStartline
	StateDoneHeaders
	StateProcessingBody
)

// String implements fmt.Stringer for debugging and logging.
func (s ParserState) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateDone:
		return "Done"
	case StateHadError:
		return "HadError"
	case StateReceivingMethod:
		return "ReceivingMethod"
	case StateReceivingURI:
		return "ReceivingUri"
	case StateReceivingStatusCode:
		return "ReceivingStatusCode"
	case StateReceivingReason:
		return "ReceivingReason"
	case StateParsingVersion:
		return "ParsingVersion"
	case StateParsingHeaderName:
		return "ParsingHeaderName"
	case StateParsingHeaderValue:
		return "ParsingHeaderValue"
	case StateDoneStartline:
		return "DoneStartline"
	case StateDoneHeaders:
		return "DoneHeaders"
	case StateProcessingBody:
		return "ProcessingBody"
	default:
		return "Unknown"
	}
}

// Default size limits, all overridable on a per-parser or per-processor
// basis (see MessageParser.Limits and ChunkedProcessor.Limits).
const (
	MaxReqMethodLen      = 64
	MaxURILen            = 65535
	MaxReasonLen         = 1024
	MaxHeaderNameLen     = 128
	MaxHeaderValSize     = 16384
	MaxChunkSize         = 16 * 1024 * 1024
	MaxChunkSizeDigits   = 7
	MaxChunkExtensionLen = 4096
)

// Limits groups the configurable size ceilings used by the message parser.
// It has no file-based or environment-based configuration layer: the
// parser is an embedded library, not a standalone service, so its only
// "configuration" surface is these exported, documented-default fields set
// directly by the embedding application.
type Limits struct {
	MaxReqMethodLen  int
	MaxURILen        int
	MaxReasonLen     int
	MaxHeaderNameLen int
	MaxHeaderValSize int
}

// DefaultLimits returns a Limits populated with the spec's default values.
func DefaultLimits() Limits {
	return Limits{
		MaxReqMethodLen:  MaxReqMethodLen,
		MaxURILen:        MaxURILen,
		MaxReasonLen:     MaxReasonLen,
		MaxHeaderNameLen: MaxHeaderNameLen,
		MaxHeaderValSize: MaxHeaderValSize,
	}
}

// ChunkLimits groups the configurable size ceilings used by ChunkedProcessor.
type ChunkLimits struct {
	MaxChunkSize         int64
	MaxChunkSizeDigits   int
	MaxChunkExtensionLen int
}

// DefaultChunkLimits returns a ChunkLimits populated with the spec's
// default values.
func DefaultChunkLimits() ChunkLimits {
	return ChunkLimits{
		MaxChunkSize:         MaxChunkSize,
		MaxChunkSizeDigits:   MaxChunkSizeDigits,
		MaxChunkExtensionLen: MaxChunkExtensionLen,
	}
}

// HTTPVersion represents a parsed HTTP version, e.g. HTTP/1.1 -> {1, 1}.
type HTTPVersion struct {
	Major uint8
	Minor uint8
}

// String implements fmt.Stringer.
func (v HTTPVersion) String() string {
	return fmt.Sprintf("HTTP/%d.%d", v.Major, v.Minor)
}
