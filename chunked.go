// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

import "strconv"

// chunkState enumerates the sub-states of ChunkedProcessor's internal state
// machine, mirroring the shape of the teacher's ParseChunk state machine in
// parse_chunk.go (sCnkParse/sCnkPTrailer) generalized to also cover chunk
// payload and the final trailer-less terminator.
type chunkState uint8

const (
	cnkSize chunkState = iota
	cnkData
	cnkDataCRLF
	cnkZeroTerm
	cnkDone
)

// ChunkedProcessor processes a chunked-transfer-encoded body: a sequence of
// "size[;ext...]\r\n<data>\r\n" chunks terminated by a zero-size chunk. The
// zero-size chunk's size line must be followed immediately by the
// terminating newline; this parser does not implement trailer-section
// parsing (see spec.md's "no trailer-section parsing after the zero-chunk"
// Non-goal), so any bytes there other than the terminator are a malformed
// chunked body, not trailer headers to skip.
//
// Grounded on python_http_parser's body.ChunkedProcessor (body.py:226-235,
// the startswith_newline check right after the zero-length "payload"), with
// the resumable line-accumulation shape taken from the teacher's
// parse_chunk.go/parse_tok.go.
type ChunkedProcessor struct {
	callbacks

	Limits ChunkLimits

	state      chunkState
	lineBuf    []byte
	remaining  int64
	extensions []string
	failed     bool
}

// NewChunkedProcessor returns a ChunkedProcessor with the given limits.
func NewChunkedProcessor(limits ChunkLimits) *ChunkedProcessor {
	return &ChunkedProcessor{Limits: limits}
}

// Extensions returns the chunk-extensions (verbatim, unvalidated) captured
// so far, from every chunk-size line of the body, in the order they appeared.
func (p *ChunkedProcessor) Extensions() []string { return p.extensions }

// Finished reports whether the zero-size chunk and the empty line that
// follows it (and therefore the whole body) have been fully consumed.
func (p *ChunkedProcessor) Finished() bool { return p.state == cnkDone }

func (p *ChunkedProcessor) fail(err error) {
	p.failed = true
	p.emitError(err)
}

// Process implements BodyProcessor. Calling Process again after the body
// has already finished reports EDone and returns -1, per spec.md §4.3 and
// the original's DoneError (body.py:105-108). After a previous call failed,
// Process returns -1 without reporting a further error.
func (p *ChunkedProcessor) Process(chunk []byte, allowLF bool) int {
	if p.failed {
		return -1
	}
	if p.state == cnkDone {
		p.fail(newErr(EDone, "body processor already finished"))
		return -1
	}

	consumed := 0
	for {
		switch p.state {
		case cnkSize, cnkDataCRLF, cnkZeroTerm:
			n, ok, ferr := p.feedLine(chunk[consumed:], allowLF)
			consumed += n
			if ferr != nil {
				p.fail(ferr)
				return -1
			}
			if !ok {
				return consumed
			}
			if serr := p.onLine(); serr != nil {
				p.fail(serr)
				return -1
			}
			p.lineBuf = p.lineBuf[:0]
			if p.state == cnkDone {
				return consumed
			}
		case cnkData:
			avail := len(chunk) - consumed
			if avail == 0 {
				return consumed
			}
			take := p.remaining
			if int64(avail) < take {
				take = int64(avail)
			}
			if take > 0 {
				p.emitData(chunk[consumed : consumed+int(take)])
				consumed += int(take)
				p.remaining -= take
			}
			if p.remaining == 0 {
				p.state = cnkDataCRLF
			}
		default:
			return consumed
		}
	}
}

// feedLine appends bytes from buf to p.lineBuf until a full line (up to but
// excluding its terminator) is available. It returns the number of bytes
// consumed from buf, and ok=true once p.lineBuf holds a complete line.
func (p *ChunkedProcessor) feedLine(buf []byte, allowLF bool) (consumed int, ok bool, err error) {
	maxLen := p.Limits.MaxChunkExtensionLen + p.Limits.MaxChunkSizeDigits
	consumed, ok, err = accumulateLine(buf, allowLF, &p.lineBuf, maxLen)
	if perr, isPE := AsParseError(err); isPE && perr.Code == ELength {
		err = newErr(EChunkExts, "chunk line exceeds limit")
	}
	return consumed, ok, err
}

// onLine interprets a just-completed line according to the current state.
func (p *ChunkedProcessor) onLine() error {
	switch p.state {
	case cnkSize:
		return p.finishSizeLine()
	case cnkDataCRLF:
		if len(p.lineBuf) != 0 {
			return newErr(EChunk, "malformed chunk terminator")
		}
		p.state = cnkSize
		return nil
	case cnkZeroTerm:
		if len(p.lineBuf) != 0 {
			return newErr(EChunk, "trailer sections are not supported")
		}
		p.state = cnkDone
		p.emitFinished()
		return nil
	}
	return nil
}

// finishSizeLine parses p.lineBuf as "hexsize[;ext1][;ext2]..." and
// transitions to cnkData (more chunk payload follows) or cnkZeroTerm (this
// was the terminating zero-size chunk). Extensions are appended to those
// captured from earlier chunk-size lines.
func (p *ChunkedProcessor) finishSizeLine() error {
	sizeEnd := len(p.lineBuf)
	for i, c := range p.lineBuf {
		if c == ';' {
			sizeEnd = i
			break
		}
	}
	sizeField := p.lineBuf[:sizeEnd]
	if len(sizeField) == 0 || len(sizeField) > p.Limits.MaxChunkSizeDigits {
		return newErr(EChunkSize, "invalid chunk size")
	}
	if !areHexDigits(sizeField) {
		return newErr(EChunkSize, "chunk size is not hexadecimal")
	}
	size, err := strconv.ParseInt(string(sizeField), 16, 64)
	if err != nil || size > p.Limits.MaxChunkSize {
		return newErr(EChunkSize, "chunk size exceeds limit")
	}

	if sizeEnd < len(p.lineBuf) {
		extPart := p.lineBuf[sizeEnd+1:]
		if len(extPart) > p.Limits.MaxChunkExtensionLen {
			return newErr(EChunkExts, "chunk extensions exceed limit")
		}
		start := 0
		for i := 0; i <= len(extPart); i++ {
			if i == len(extPart) || extPart[i] == ';' {
				p.extensions = append(p.extensions, string(extPart[start:i]))
				start = i + 1
			}
		}
	}

	p.remaining = size
	if size == 0 {
		p.state = cnkZeroTerm
	} else {
		p.state = cnkData
	}
	return nil
}
