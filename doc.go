// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

// Package httpstream implements an incremental, push-based parser for
// HTTP/1.1 messages (requests and responses).
//
// Callers feed arbitrary byte fragments to (*MessageParser).Process; the
// parser advances as far as the fragment allows, emits events through an
// Emitter (req_method, header_name, data, ...) and returns the number of
// bytes consumed. Unconsumed bytes must be buffered by the caller and
// prepended to the next fragment; the parser never re-scans bytes it has
// already counted as consumed.
//
// Body bytes are handed to a caller-supplied BodyProcessor (FixedLenProcessor
// or ChunkedProcessor) once the header block is complete; the parser itself
// never decides which one to use.
package httpstream
