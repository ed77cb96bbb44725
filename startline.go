// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

import (
	"strconv"

	"github.com/intuitivelabs/bytescase"
)

// stepEmpty skips request-side leading blank lines (RFC 7230 §3.5), then
// moves into the first start-line field for this message kind. Responses
// never have leading blank lines to skip.
func (p *MessageParser) stepEmpty(rest []byte) (int, bool, error) {
	if p.Kind == MessageRequest && !p.skippedEmptyLines {
		n, done, err := p.skipEmptyLines(rest)
		if err != nil {
			return n, true, err
		}
		if !done {
			return n, n > 0, nil
		}
		p.skippedEmptyLines = true
		p.state = StateReceivingMethod
		return n, true, nil
	}
	if p.Kind == MessageRequest {
		p.state = StateReceivingMethod
	} else {
		p.state = StateParsingVersion
	}
	return 0, true, nil
}

// skipEmptyLines consumes consecutive CRLF/LF newlines from the front of
// rest. done is false both when rest is empty and when rest is entirely
// blank lines so far (more bytes might reveal further blank lines, or the
// start of real content) — grounded on python_http_parser's
// _skip_empty_lines, which reports "incomplete" in exactly this case rather
// than guessing.
func (p *MessageParser) skipEmptyLines(rest []byte) (consumed int, done bool, err error) {
	for {
		if consumed >= len(rest) {
			return consumed, false, nil
		}
		ok, complete, kind, nerr := startsWithNewline(rest[consumed:], p.Strictness.allowLF())
		if nerr != nil {
			return consumed, false, nerr
		}
		if !complete {
			return consumed, false, nil
		}
		if !ok {
			return consumed, true, nil
		}
		consumed += kind.len()
	}
}

func (p *MessageParser) stepMethod(rest []byte) (int, bool, error) {
	n, ok, err := scanField(rest, ' ', &p.methodBuf, p.Limits.MaxReqMethodLen)
	if err != nil {
		return n, true, err
	}
	if !ok {
		return n, n > 0, nil
	}
	if len(p.methodBuf) == 0 || !isToken(p.methodBuf) {
		return n, true, newErr(EToken, "invalid request method")
	}
	p.Emit(EventReqMethod, cloneBytes(p.methodBuf))
	p.state = StateReceivingURI
	return n, true, nil
}

func (p *MessageParser) stepURI(rest []byte) (int, bool, error) {
	n, ok, err := scanField(rest, ' ', &p.uriBuf, p.Limits.MaxURILen)
	if err != nil {
		return n, true, err
	}
	if !ok {
		return n, n > 0, nil
	}
	if len(p.uriBuf) == 0 || !isURIChar(p.uriBuf) {
		return n, true, newErr(EURIChar, "invalid request-target")
	}
	p.Emit(EventReqURI, cloneBytes(p.uriBuf))
	p.state = StateParsingVersion
	return n, true, nil
}

// maxVersionLen bounds the "HTTP/D.D" version token; it is not part of
// Limits since RFC 7230 fixes its shape and it can never legitimately grow.
const maxVersionLen = 16

func (p *MessageParser) stepVersion(rest []byte) (int, bool, error) {
	var (
		n   int
		ok  bool
		err error
	)
	if p.Kind == MessageRequest {
		n, ok, err = accumulateLine(rest, p.Strictness.allowLF(), &p.verBuf, maxVersionLen)
	} else {
		n, ok, err = scanField(rest, ' ', &p.verBuf, maxVersionLen)
	}
	if err != nil {
		return n, true, err
	}
	if !ok {
		return n, n > 0, nil
	}

	ver, verr := parseHTTPVersion(p.verBuf, p.Strictness)
	if verr != nil {
		return n, true, verr
	}
	p.version = ver
	p.Emit(EventVersion, ver)

	if p.Kind == MessageRequest {
		p.state = StateDoneStartline
	} else {
		p.state = StateReceivingStatusCode
	}
	return n, true, nil
}

var httpVersionPrefix = []byte("HTTP/")

// parseHTTPVersion parses the form "HTTP/" 1DIGIT "." 1DIGIT. At Normal and
// Strict strictness the "HTTP/" literal must match exactly; at Lenient it is
// matched case-insensitively, the same tolerance the teacher's
// ParseFLine applies to its own version-prefix match via bytescase.Prefix.
func parseHTTPVersion(buf []byte, strictness Strictness) (HTTPVersion, error) {
	if len(buf) != len(httpVersionPrefix)+3 {
		return HTTPVersion{}, newErr(EHTTPVer, "malformed HTTP version")
	}

	var prefixOK bool
	if strictness == Lenient {
		_, prefixOK = bytescase.Prefix(httpVersionPrefix, buf)
	} else {
		prefixOK = string(buf[:len(httpVersionPrefix)]) == string(httpVersionPrefix)
	}
	if !prefixOK {
		return HTTPVersion{}, newErr(EHTTPVer, "malformed HTTP version")
	}

	major, dot, minor := buf[len(httpVersionPrefix)], buf[len(httpVersionPrefix)+1], buf[len(httpVersionPrefix)+2]
	if dot != '.' || !areDigits([]byte{major}) || !areDigits([]byte{minor}) {
		return HTTPVersion{}, newErr(EHTTPVer, "malformed HTTP version")
	}
	return HTTPVersion{Major: major - '0', Minor: minor - '0'}, nil
}

// stepStatusCode reads exactly 3 bytes, no delimiter. Grounded on
// python_http_parser's _recv_code (stream.py:574-584), which only checks
// len(buf) >= 3 and never looks for a following space; the separator
// between the status code and the (possibly absent) reason-phrase is
// stepReason's concern, not this one's.
func (p *MessageParser) stepStatusCode(rest []byte) (int, bool, error) {
	n, ok := readFixedLen(rest, &p.statusBuf, 3)
	if !ok {
		return n, n > 0, nil
	}
	if !areDigits(p.statusBuf) {
		return n, true, newErr(EStatus, "invalid status code")
	}
	code, _ := strconv.Atoi(string(p.statusBuf))
	p.statusCode = code
	p.Emit(EventStatusCode, code)
	p.state = StateReceivingReason
	return n, true, nil
}

// stepReason implements RECEIVING_REASON (stream.py:193-224): if the status
// code is immediately followed by a newline, there is no reason-phrase at
// all and an empty one is emitted; otherwise exactly one SP must separate
// the status code from the reason-phrase text, and anything else there is a
// malformed status line.
func (p *MessageParser) stepReason(rest []byte) (int, bool, error) {
	if !p.reasonSepSeen {
		ok, complete, kind, err := startsWithNewline(rest, p.Strictness.allowLF())
		if err != nil {
			return 0, true, err
		}
		if !complete {
			return 0, false, nil
		}
		if ok {
			p.Emit(EventReason, []byte{})
			p.state = StateDoneStartline
			return kind.len(), true, nil
		}
		if rest[0] != ' ' {
			return 0, true, newErr(EStatus, "expected SP or CRLF after status code")
		}
		p.reasonSepSeen = true
		n, progressed, rerr := p.consumeReasonText(rest[1:])
		return n + 1, progressed, rerr
	}
	return p.consumeReasonText(rest)
}

// consumeReasonText accumulates the reason-phrase line once the mandatory
// separator (if any) has already been consumed.
func (p *MessageParser) consumeReasonText(rest []byte) (int, bool, error) {
	n, ok, err := accumulateLine(rest, p.Strictness.allowLF(), &p.reasonBuf, p.Limits.MaxReasonLen)
	if err != nil {
		return n, true, err
	}
	if !ok {
		return n, n > 0, nil
	}

	hasObsText := false
	for _, c := range p.reasonBuf {
		switch {
		case vcharWSTbl[c]:
		case obsTextTbl[c]:
			hasObsText = true
		default:
			return n, true, newErr(EChar, "invalid reason-phrase character")
		}
	}
	if hasObsText {
		// Grounded on python_http_parser's reason-phrase handling: a
		// reason containing obs-text is accepted but surfaced as empty,
		// since obs-text has no defined charset to decode it with.
		p.Emit(EventReason, []byte{})
	} else {
		p.Emit(EventReason, cloneBytes(p.reasonBuf))
	}
	p.state = StateDoneStartline
	return n, true, nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
