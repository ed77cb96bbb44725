// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

import "github.com/intuitivelabs/bytescase"

// EqualFold reports whether two header field names are equal under the
// case-insensitive comparison RFC 7230 §3.2 requires for field names. The
// parser itself never compares header names (it has no header semantics;
// see spec.md's Non-goals), but callers building on top of header_name
// events need this constantly, so it is exposed here rather than left for
// every caller to reimplement.
func EqualFold(a, b []byte) bool {
	return bytescase.CmpEq(a, b)
}

// stepHeaderName looks for either the blank line terminating the header
// block, or a token header-field name up to its colon.
//
// Grounded on python_http_parser's _process_headers/_recv_header_name and
// the teacher's ParseHeaders loop (hInit/hName states in parse_headers.go).
func (p *MessageParser) stepHeaderName(rest []byte) (int, bool, error) {
	if len(p.curHeaderName) == 0 {
		ok, complete, kind, err := startsWithNewline(rest, p.Strictness.allowLF())
		if err != nil {
			return 0, true, err
		}
		if !complete {
			return 0, false, nil
		}
		if ok {
			p.state = StateDoneHeaders
			return kind.len(), true, nil
		}
	}

	n, ok, err := scanField(rest, ':', &p.curHeaderName, p.Limits.MaxHeaderNameLen)
	if err != nil {
		return n, true, err
	}
	if !ok {
		return n, n > 0, nil
	}
	if len(p.curHeaderName) == 0 || !isToken(p.curHeaderName) {
		return n, true, newErr(EToken, "invalid header field name")
	}
	p.Emit(EventHeaderName, cloneBytes(p.curHeaderName))
	p.state = StateParsingHeaderValue
	return n, true, nil
}

// stepHeaderValue accumulates a full header-field line (optional leading
// OWS, the value, optional trailing OWS) and emits the value with
// surrounding OWS stripped, per RFC 7230 §3.2's "field-value OWS" grammar.
// Obsolete line folding is not supported; a folded continuation line is
// parsed as the next header's name and will fail token validation.
func (p *MessageParser) stepHeaderValue(rest []byte) (int, bool, error) {
	n, ok, err := accumulateLine(rest, p.Strictness.allowLF(), &p.curHeaderValue, p.Limits.MaxHeaderValSize)
	if err != nil {
		return n, true, err
	}
	if !ok {
		return n, n > 0, nil
	}

	trimmed := trimOWS(p.curHeaderValue)
	hasObsText := false
	for _, c := range trimmed {
		switch {
		case vcharWSTbl[c]:
		case obsTextTbl[c]:
			hasObsText = true
		default:
			return n, true, newErr(EHeaderVal, "invalid header field value byte")
		}
	}

	if hasObsText {
		// Grounded on python_http_parser's _recv_header_value
		// (stream.py:736-744): a value containing obs-text is accepted but
		// surfaced as empty, since obs-text has no defined charset to
		// decode it with — the same rule stepReason applies to the
		// reason-phrase.
		p.Emit(EventHeaderValue, []byte{})
	} else {
		p.Emit(EventHeaderValue, cloneBytes(trimmed))
	}
	p.curHeaderName = p.curHeaderName[:0]
	p.curHeaderValue = p.curHeaderValue[:0]
	p.state = StateParsingHeaderName
	return n, true, nil
}

// trimOWS strips leading and trailing optional whitespace (SP / HTAB).
func trimOWS(buf []byte) []byte {
	start := 0
	for start < len(buf) && (buf[start] == ' ' || buf[start] == '\t') {
		start++
	}
	end := len(buf)
	for end > start && (buf[end-1] == ' ' || buf[end-1] == '\t') {
		end--
	}
	return buf[start:end]
}
