// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

import "bytes"

// NewlineKind identifies the kind of line terminator found by
// startsWithNewline or findNewline.
type NewlineKind uint8

const (
	NewlineNone NewlineKind = iota
	NewlineLF
	NewlineCRLF
)

const (
	cr = '\r'
	lf = '\n'
)

// startsWithNewline reports whether buf begins with a line terminator.
//
//   - buf empty, or buf == "\r" (lone CR, more bytes might follow): ok=false,
//     complete=false ("incomplete", caller should buffer more).
//   - buf begins with CR followed by anything other than LF: ENEWLINE.
//   - buf begins with LF and allowLF is false: ENEWLINE.
//   - buf begins with LF and allowLF is true: ok=true, NewlineLF.
//   - buf begins with CRLF: ok=true, NewlineCRLF.
//   - otherwise: ok=false, complete=true (buf does not start with a newline).
func startsWithNewline(buf []byte, allowLF bool) (ok, complete bool, kind NewlineKind, err error) {
	if len(buf) == 0 {
		return false, false, NewlineNone, nil
	}
	switch buf[0] {
	case cr:
		if len(buf) < 2 {
			return false, false, NewlineNone, nil
		}
		if buf[1] != lf {
			return false, true, NewlineNone, newErr(ENewline, "expected CRLF, got bare CR")
		}
		return true, true, NewlineCRLF, nil
	case lf:
		if !allowLF {
			return false, true, NewlineNone, newErr(ENewline, "CRLF is required")
		}
		return true, true, NewlineLF, nil
	default:
		return false, true, NewlineNone, nil
	}
}

// findNewline scans buf for the earliest LF or CR and reports its index and
// kind. It returns index == -1 if no newline was found yet (the caller
// should buffer more input before giving up). A CR immediately followed by
// a non-LF byte is a grammar error (ENEWLINE); a CR at the very end of buf
// is reported as "not found yet", since the LF may arrive in the next
// fragment. An LF encountered when allowLF is false is also ENEWLINE.
func findNewline(buf []byte, allowLF bool) (index int, kind NewlineKind, err error) {
	lfIdx := bytes.IndexByte(buf, lf)
	crIdx := bytes.IndexByte(buf, cr)

	switch {
	case crIdx < 0 && lfIdx < 0:
		return -1, NewlineNone, nil
	case crIdx >= 0 && (lfIdx < 0 || crIdx < lfIdx):
		// Earliest special byte is CR (or the only one found is CR).
		if crIdx == len(buf)-1 {
			// LF might still arrive in the next fragment.
			return -1, NewlineNone, nil
		}
		if buf[crIdx+1] != lf {
			return -1, NewlineNone, newErr(ENewline, "expected CRLF, got bare CR")
		}
		return crIdx, NewlineCRLF, nil
	default:
		// LF is first (or the only newline byte found).
		if !allowLF {
			return -1, NewlineNone, newErr(ENewline, "CRLF is required")
		}
		return lfIdx, NewlineLF, nil
	}
}

// len returns the byte length of a NewlineKind (1 for LF, 2 for
// CRLF, 0 for NewlineNone).
func (k NewlineKind) len() int {
	switch k {
	case NewlineLF:
		return 1
	case NewlineCRLF:
		return 2
	default:
		return 0
	}
}

// accumulateLine appends bytes from buf into *acc until a newline is found,
// mirroring the resumable line-accumulation shape used throughout this
// package (chunk-size lines, header lines, the start-line fields that run to
// end-of-line). It returns the number of bytes consumed from buf, and
// ok=true once *acc holds a complete line with its terminator stripped.
// maxLen bounds the accumulated length while still incomplete; 0 means
// unbounded.
func accumulateLine(buf []byte, allowLF bool, acc *[]byte, maxLen int) (consumed int, ok bool, err error) {
	if n := len(*acc); n > 0 && (*acc)[n-1] == cr {
		// The previous fragment ended in a CR; its LF must come first here.
		if len(buf) == 0 {
			return 0, false, nil
		}
		if buf[0] != lf {
			return 0, false, newErr(ENewline, "expected CRLF, got bare CR")
		}
		*acc = (*acc)[:n-1]
		return 1, true, nil
	}
	idx, kind, ferr := findNewline(buf, allowLF)
	if ferr != nil {
		return 0, false, ferr
	}
	if idx < 0 {
		*acc = append(*acc, buf...)
		if maxLen > 0 && len(*acc) > maxLen {
			return len(buf), false, newErr(ELength, "line exceeds configured limit")
		}
		return len(buf), false, nil
	}
	*acc = append(*acc, buf[:idx]...)
	if maxLen > 0 && len(*acc) > maxLen {
		return idx + kind.len(), false, newErr(ELength, "line exceeds configured limit")
	}
	return idx + kind.len(), true, nil
}

// scanField appends bytes from buf into *acc until delim is found, returning
// the number of bytes consumed (including delim) and ok=true once delim was
// found. maxLen bounds the accumulated length while still incomplete; 0
// means unbounded.
func scanField(buf []byte, delim byte, acc *[]byte, maxLen int) (consumed int, ok bool, err error) {
	for i, c := range buf {
		if c == delim {
			*acc = append(*acc, buf[:i]...)
			if maxLen > 0 && len(*acc) > maxLen {
				return i + 1, false, newErr(ELength, "field exceeds configured limit")
			}
			return i + 1, true, nil
		}
	}
	*acc = append(*acc, buf...)
	if maxLen > 0 && len(*acc) > maxLen {
		return len(buf), false, newErr(ELength, "field exceeds configured limit")
	}
	return len(buf), false, nil
}

// readFixedLen appends bytes from buf into *acc until it holds exactly n
// bytes, with no delimiter to scan for. It returns the number of bytes
// consumed from buf and ok=true once *acc has reached length n. Used for
// fields whose length the grammar fixes outright (the 3-digit status code),
// where scanning for a following delimiter is both unnecessary and wrong.
func readFixedLen(buf []byte, acc *[]byte, n int) (consumed int, ok bool) {
	need := n - len(*acc)
	if need <= 0 {
		return 0, true
	}
	take := len(buf)
	if take > need {
		take = need
	}
	*acc = append(*acc, buf[:take]...)
	return take, len(*acc) == n
}
