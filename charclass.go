// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

// Precomputed byte-class tables, one bool per possible byte value, built
// once at init time so every predicate below is a flat O(n) array lookup
// rather than a per-byte switch. Grounded on the character sets in
// python_http_parser's constants.py (TOKENS, URI_CHARS, VCHAR_OR_WSP,
// OBS_TXT, DIGITS, HEX_DIGITS), restated as RFC 7230 grammar in spec.md
// §4.2.
var (
	tokenTable [256]bool
	uriTable   [256]bool
	vcharWSTbl [256]bool
	obsTextTbl [256]bool
	digitTbl   [256]bool
	hexDigTbl  [256]bool
)

func init() {
	// token = 1*tchar, tchar = "!" / "#" / "$" / "%" / "&" / "'" / "*" /
	// "+" / "-" / "." / "^" / "_" / "`" / "|" / "~" / DIGIT / ALPHA
	for _, c := range []byte("!#$%&'*+-.^_`|~") {
		tokenTable[c] = true
	}
	for c := byte('0'); c <= '9'; c++ {
		tokenTable[c] = true
		digitTbl[c] = true
		hexDigTbl[c] = true
	}
	for c := byte('a'); c <= 'f'; c++ {
		hexDigTbl[c] = true
	}
	for c := byte('A'); c <= 'F'; c++ {
		hexDigTbl[c] = true
	}
	for c := byte('a'); c <= 'z'; c++ {
		tokenTable[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		tokenTable[c] = true
	}

	for _, c := range []byte("%:/?#[]@!$&'()*+,;=-._~") {
		uriTable[c] = true
	}
	for c := byte('a'); c <= 'z'; c++ {
		uriTable[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		uriTable[c] = true
	}
	for c := byte('0'); c <= '9'; c++ {
		uriTable[c] = true
	}

	vcharWSTbl[' '] = true
	vcharWSTbl['\t'] = true
	for c := 0x21; c <= 0x7e; c++ {
		vcharWSTbl[byte(c)] = true
	}

	for c := 0x80; c <= 0xff; c++ {
		obsTextTbl[byte(c)] = true
	}
}

// isToken reports whether every byte in buf is a valid RFC 7230 tchar.
// An empty slice is considered a valid (vacuously true) token body; callers
// must separately reject zero-length tokens where the grammar requires
// "1*tchar".
func isToken(buf []byte) bool {
	for _, c := range buf {
		if !tokenTable[c] {
			return false
		}
	}
	return true
}

// isURIChar reports whether every byte in buf is a reserved or unreserved
// URI character, or '%'.
func isURIChar(buf []byte) bool {
	for _, c := range buf {
		if !uriTable[c] {
			return false
		}
	}
	return true
}

// isVCharOrWhsp reports whether every byte in buf is SP, HTAB, or a
// printable US-ASCII character (0x21-0x7E).
func isVCharOrWhsp(buf []byte) bool {
	for _, c := range buf {
		if !vcharWSTbl[c] {
			return false
		}
	}
	return true
}

// isObsText reports whether every byte in buf is in the obs-text range
// (0x80-0xFF).
func isObsText(buf []byte) bool {
	for _, c := range buf {
		if !obsTextTbl[c] {
			return false
		}
	}
	return true
}

// areDigits reports whether every byte in buf is a decimal digit.
func areDigits(buf []byte) bool {
	for _, c := range buf {
		if !digitTbl[c] {
			return false
		}
	}
	return true
}

// areHexDigits reports whether every byte in buf is a hexadecimal digit.
func areHexDigits(buf []byte) bool {
	for _, c := range buf {
		if !hexDigTbl[c] {
			return false
		}
	}
	return true
}
