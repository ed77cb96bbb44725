// Copyright 2024 The httpstream-go Authors. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source
// tree.

package httpstream

// EventName identifies one of the events a MessageParser (or, internally, a
// BodyProcessor) emits. See doc.go and spec.md §3 for the full ordering.
type EventName string

const (
	EventReqMethod         EventName = "req_method"
	EventReqURI            EventName = "req_uri"
	EventVersion           EventName = "version"
	EventStatusCode        EventName = "status_code"
	EventReason            EventName = "reason"
	EventStartlineComplete EventName = "startline_complete"
	EventHeaderName        EventName = "header_name"
	EventHeaderValue       EventName = "header_value"
	EventHeadersComplete   EventName = "headers_complete"
	EventData              EventName = "data"
	EventMessageComplete   EventName = "message_complete"
	EventError             EventName = "error"
)

// EventFunc is the signature of an event listener. args carries the
// event-specific payload described in spec.md §6 (e.g. []byte for
// req_method/header_name/..., HTTPVersion for version, int for
// status_code, error for error, nil for the no-payload events).
type EventFunc func(args ...interface{})

// ListenerID is an opaque handle returned by Emitter.On/Once, used to
// remove a specific listener via Emitter.Off. Go closures are not
// comparable, so unlike the callback-identity based off(event, callback)
// described in spec.md §4.8, removal here is keyed on this handle instead
// (see DESIGN.md, Open Question 1) — every other behavioral guarantee
// (registration order preserved, snapshot dispatch, once-removal-after-fire)
// is unchanged.
type ListenerID uint64

type listener struct {
	id   ListenerID
	fn   EventFunc
	once bool
}

// Emitter is a small, synchronous, single-threaded event dispatcher:
// listeners fire in registration order, in the same goroutine that calls
// Emit, and a listener removed mid-dispatch (by itself or another listener)
// only stops firing on subsequent Emit calls, never the current one.
//
// Grounded on python_http_parser's helpers/events.py EventEmitter: emit()
// iterates a copy of the listener slice, and once-listeners are removed
// immediately after they fire.
type Emitter struct {
	listeners map[EventName][]listener
	nextID    ListenerID
}

func newEmitter() *Emitter {
	return &Emitter{listeners: make(map[EventName][]listener)}
}

// On registers fn to be called every time event fires.
func (e *Emitter) On(event EventName, fn EventFunc) ListenerID {
	return e.add(event, fn, false)
}

// Once registers fn to be called exactly once, the next time event fires.
func (e *Emitter) Once(event EventName, fn EventFunc) ListenerID {
	return e.add(event, fn, true)
}

func (e *Emitter) add(event EventName, fn EventFunc, once bool) ListenerID {
	e.nextID++
	id := e.nextID
	e.listeners[event] = append(e.listeners[event], listener{id: id, fn: fn, once: once})
	return id
}

// Off removes the listener previously registered with id for event. It is
// a no-op if id is not currently registered for event.
func (e *Emitter) Off(event EventName, id ListenerID) {
	ls, ok := e.listeners[event]
	if !ok {
		return
	}
	for i, l := range ls {
		if l.id == id {
			e.listeners[event] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Emit calls every listener registered for event, in registration order,
// with args. Listeners registered via Once are removed right after they
// fire. Removals that happen during Emit (via Off called from inside a
// listener) never affect the dispatch already in progress, since Emit
// iterates a snapshot of the listener slice taken before the first call.
func (e *Emitter) Emit(event EventName, args ...interface{}) {
	ls, ok := e.listeners[event]
	if !ok || len(ls) == 0 {
		return
	}
	snapshot := make([]listener, len(ls))
	copy(snapshot, ls)

	for _, l := range snapshot {
		l.fn(args...)
		if l.once {
			e.Off(event, l.id)
		}
	}
}

// Listeners returns the number of listeners currently registered for event.
func (e *Emitter) Listeners(event EventName) int {
	return len(e.listeners[event])
}
