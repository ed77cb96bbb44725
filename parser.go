// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

// MessageKind selects whether a MessageParser parses request messages
// (method SP request-target SP HTTP-version) or response messages
// (HTTP-version SP status-code SP reason-phrase). The parser never infers
// this from the byte stream; the caller knows which side of the connection
// it is reading (see spec.md's "no automatic message-type detection"
// Non-goal).
type MessageKind uint8

const (
	MessageRequest MessageKind = iota
	MessageResponse
)

// MessageParser incrementally parses one HTTP/1.1 message (start line plus
// headers) from bytes pushed to it via Process. It does not parse the
// message body itself; if the message has a body, the caller must attach a
// BodyProcessor (FixedLenProcessor or ChunkedProcessor) via SetBodyProcessor
// no later than from a headers_complete listener, or Process reports
// EBodyProcessor in the same call that completes the header block.
//
// Grounded on python_http_parser's stream.HTTPParser: the state dispatch in
// _process, and the _process_request_line/_process_status_line/
// _process_headers helpers. The offset-accumulation idiom (append into a
// growing buffer across Process calls, rather than eagerly slicing a
// complete message) follows the teacher's resumable parse_fline.go/
// parse_headers.go.
type MessageParser struct {
	*Emitter

	Kind       MessageKind
	Strictness Strictness
	Limits     Limits

	state ParserState

	skippedEmptyLines bool
	reasonSepSeen     bool

	methodBuf []byte
	uriBuf    []byte
	verBuf    []byte
	statusBuf []byte
	reasonBuf []byte

	version    HTTPVersion
	statusCode int

	curHeaderName  []byte
	curHeaderValue []byte

	hasBody  bool
	bodyProc BodyProcessor
}

// NewMessageParser returns a MessageParser ready to parse a message of the
// given kind, using the supplied strictness and size limits.
func NewMessageParser(kind MessageKind, strictness Strictness, limits Limits) *MessageParser {
	return &MessageParser{
		Emitter:    newEmitter(),
		Kind:       kind,
		Strictness: strictness,
		Limits:     limits,
		state:      StateEmpty,
	}
}

// State returns the parser's current ParserState, chiefly useful for tests
// and diagnostics.
func (p *MessageParser) State() ParserState { return p.state }

// Finished reports whether the message (start line, headers, and body, if
// any) has been fully parsed.
func (p *MessageParser) Finished() bool { return p.state == StateDone }

// HasBody reports whether this message is expected to carry a body, as
// previously recorded via SetHasBody. The parser never infers this itself
// (doing so requires inspecting header semantics such as Content-Length and
// Transfer-Encoding, which is the caller's responsibility; see spec.md's
// "no automatic body-processor selection" Non-goal).
func (p *MessageParser) HasBody() bool { return p.hasBody }

// SetHasBody records whether a body should be expected after headers
// complete. Call this from a headers_complete listener (or earlier) if the
// message has a body: the Process call that completes the header block
// decides between body processing and StateDone right after that event.
func (p *MessageParser) SetHasBody(has bool) { p.hasBody = has }

// SetBodyProcessor attaches the BodyProcessor that will receive body bytes
// once headers are complete, and wires its callbacks into the parser's own
// event stream: the processor's data becomes the parser's "data" event, its
// error becomes the parser's "error" event (the processor's original
// ParseError is forwarded unchanged, never replaced with a generic one), and
// its completion drives the parser to StateDone and emits
// "message_complete". It must be called before StateProcessingBody is
// reached if HasBody is true, typically from a headers_complete listener.
//
// Grounded on python_http_parser's stream._setup_body_processor, which wires
// the same three callbacks (on_data/on_error/on_finished) onto the parser's
// own emitter.
func (p *MessageParser) SetBodyProcessor(bp BodyProcessor) {
	p.bodyProc = bp
	bp.OnData(func(chunk []byte) { p.Emit(EventData, chunk) })
	bp.OnError(func(err error) { p.fail(err) })
	bp.OnFinished(func() {
		p.state = StateDone
		p.Emit(EventMessageComplete)
	})
}

// BodyProcessor returns the currently attached BodyProcessor, or nil.
func (p *MessageParser) BodyProcessor() BodyProcessor { return p.bodyProc }

// Reset returns the parser to its initial state so it can parse a new
// message of the same kind, reusing its buffers' underlying storage.
func (p *MessageParser) Reset() {
	p.state = StateEmpty
	p.skippedEmptyLines = false
	p.reasonSepSeen = false
	p.methodBuf = p.methodBuf[:0]
	p.uriBuf = p.uriBuf[:0]
	p.verBuf = p.verBuf[:0]
	p.statusBuf = p.statusBuf[:0]
	p.reasonBuf = p.reasonBuf[:0]
	p.curHeaderName = p.curHeaderName[:0]
	p.curHeaderValue = p.curHeaderValue[:0]
	p.version = HTTPVersion{}
	p.statusCode = 0
	p.hasBody = false
	p.bodyProc = nil
}

// Process pushes buf's bytes through the state machine and returns the
// number of bytes consumed, which may be less than len(buf) when the parser
// needs more input to complete the field or line it is working on. It
// returns -1 once an error has occurred (either during this call or a
// previous one): every call after an error is absorbed as a no-op, mirroring
// python_http_parser's behavior of latching into an error state until
// reset(). If no error listener is registered, the error is raised as a
// panic instead of being returned as -1 (see fail).
func (p *MessageParser) Process(buf []byte) int {
	if p.state == StateHadError {
		return -1
	}

	consumed := 0
	for {
		if p.state == StateDone {
			return consumed
		}
		n, progressed, err := p.step(buf[consumed:])
		consumed += n
		if err != nil {
			p.fail(err)
			return -1
		}
		if p.state == StateHadError {
			// The attached BodyProcessor's OnError callback (wired in
			// SetBodyProcessor) already called p.fail with the real error.
			return -1
		}
		if !progressed {
			return consumed
		}
	}
}

// fail transitions the parser into its absorbing error state and emits the
// error event exactly once; if no error listener is registered, it panics
// with err instead. Every subsequent Process call returns -1 without doing
// any further work, until Reset.
func (p *MessageParser) fail(err error) {
	p.state = StateHadError
	if p.Listeners(EventError) == 0 {
		panic(err)
	}
	p.Emit(EventError, err)
}

// step advances the state machine by as much as rest allows, returning the
// number of bytes consumed from rest and whether any progress was made
// (false means more input is needed before step can do anything further).
func (p *MessageParser) step(rest []byte) (consumed int, progressed bool, err error) {
	switch p.state {
	case StateEmpty:
		return p.stepEmpty(rest)
	case StateReceivingMethod:
		return p.stepMethod(rest)
	case StateReceivingURI:
		return p.stepURI(rest)
	case StateParsingVersion:
		return p.stepVersion(rest)
	case StateReceivingStatusCode:
		return p.stepStatusCode(rest)
	case StateReceivingReason:
		return p.stepReason(rest)
	case StateDoneStartline:
		p.Emit(EventStartlineComplete)
		p.state = StateParsingHeaderName
		return 0, true, nil
	case StateParsingHeaderName:
		return p.stepHeaderName(rest)
	case StateParsingHeaderValue:
		return p.stepHeaderValue(rest)
	case StateDoneHeaders:
		return p.stepDoneHeaders(rest)
	case StateProcessingBody:
		return p.stepBody(rest)
	default:
		return 0, false, nil
	}
}

// stepDoneHeaders dispatches to body processing, or straight to
// StateDone, once the header block is finished.
func (p *MessageParser) stepDoneHeaders(rest []byte) (int, bool, error) {
	p.Emit(EventHeadersComplete)
	if !p.hasBody {
		p.state = StateDone
		p.Emit(EventMessageComplete)
		return 0, true, nil
	}
	if p.bodyProc == nil {
		return 0, true, newErr(EBodyProcessor, "message has a body but no BodyProcessor was set")
	}
	p.state = StateProcessingBody
	return 0, true, nil
}

// stepBody forwards rest to the attached BodyProcessor. The processor's own
// callbacks (wired in SetBodyProcessor) drive EventData/EventError/
// StateDone/EventMessageComplete directly, so stepBody itself only needs to
// report whether the call made progress.
func (p *MessageParser) stepBody(rest []byte) (int, bool, error) {
	if len(rest) == 0 {
		return 0, false, nil
	}
	n := p.bodyProc.Process(rest, p.Strictness.allowLF())
	if n < 0 {
		// The OnError callback already transitioned the parser into
		// StateHadError; the outer Process loop detects that and stops.
		return 0, true, nil
	}
	return n, n > 0 || p.state == StateDone, nil
}
