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

func TestEmitterRegistrationOrder(t *testing.T) {
	e := newEmitter()
	var order []int
	e.On(EventData, func(args ...interface{}) { order = append(order, 1) })
	e.On(EventData, func(args ...interface{}) { order = append(order, 2) })
	e.On(EventData, func(args ...interface{}) { order = append(order, 3) })

	e.Emit(EventData)

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestEmitterOnceFiresOnlyOnce(t *testing.T) {
	e := newEmitter()
	count := 0
	e.Once(EventMessageComplete, func(args ...interface{}) { count++ })

	e.Emit(EventMessageComplete)
	e.Emit(EventMessageComplete)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, e.Listeners(EventMessageComplete))
}

func TestEmitterOff(t *testing.T) {
	e := newEmitter()
	fired := false
	id := e.On(EventError, func(args ...interface{}) { fired = true })
	e.Off(EventError, id)

	e.Emit(EventError)

	assert.False(t, fired)
}

func TestEmitterOffDuringDispatchDoesNotAffectCurrentEmit(t *testing.T) {
	e := newEmitter()
	var fired []int
	var id2 ListenerID
	e.On(EventData, func(args ...interface{}) {
		fired = append(fired, 1)
		e.Off(EventData, id2)
	})
	id2 = e.On(EventData, func(args ...interface{}) { fired = append(fired, 2) })

	e.Emit(EventData)
	assert.Equal(t, []int{1, 2}, fired)

	fired = nil
	e.Emit(EventData)
	assert.Equal(t, []int{1}, fired)
}

func TestEmitterUnregisteredEventIsNoop(t *testing.T) {
	e := newEmitter()
	assert.NotPanics(t, func() { e.Emit(EventReqMethod, []byte("GET")) })
}
