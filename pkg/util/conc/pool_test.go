// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conc

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/dson-go/pkg/util/merr"
)

func TestPool(t *testing.T) {
	pool := NewDefaultPool[int]()
	defer pool.Release()

	futures := make([]*Future[int], 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		futures = append(futures, pool.Submit(func() (int, error) {
			return i * i, nil
		}))
	}
	require.NoError(t, AwaitAll(futures...))
	for i, future := range futures {
		v, err := future.Await()
		assert.NoError(t, err)
		assert.Equal(t, i*i, v)
		assert.True(t, future.OK())
	}
	assert.Greater(t, pool.Cap(), 0)
}

func TestPoolError(t *testing.T) {
	pool := NewPool[string](2)
	defer pool.Release()

	errBoom := errors.New("boom")
	ok := pool.Submit(func() (string, error) { return "ok", nil })
	bad := pool.Submit(func() (string, error) { return "", errBoom })

	assert.Equal(t, "ok", ok.Value())
	assert.ErrorIs(t, bad.Err(), errBoom)
	assert.False(t, bad.OK())
	assert.ErrorIs(t, AwaitAll(ok, bad), errBoom)
	<-bad.Done()
}

func TestPoolPreHandlerAndPanic(t *testing.T) {
	var calls atomic.Int32
	var panics atomic.Int32
	pool := NewPool[int](1,
		WithPreHandler(func() { calls.Add(1) }),
		WithPanicHandler(func(any) { panics.Add(1) }),
		WithExpiryDuration(time.Second),
	)
	defer pool.Release()

	assert.True(t, pool.Submit(func() (int, error) { return 1, nil }).OK())
	future := pool.Submit(func() (int, error) { panic("oops") })
	assert.Error(t, future.Err())
	assert.Equal(t, int32(2), calls.Load())
	assert.Eventually(t, func() bool { return panics.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestPoolResize(t *testing.T) {
	pool := NewPool[int](2)
	defer pool.Release()

	require.NoError(t, pool.Resize(4))
	assert.Equal(t, 4, pool.Cap())
	assert.ErrorIs(t, pool.Resize(0), merr.ErrParameterInvalid)

	pre := NewPool[int](2, WithPreAlloc(true))
	defer pre.Release()
	assert.ErrorIs(t, pre.Resize(4), merr.ErrParameterInvalid)
}

func TestPoolReleased(t *testing.T) {
	pool := NewPool[int](1, WithNonBlocking(true), WithDisablePurge(true), WithConcealPanic(true))
	pool.Release()
	assert.Error(t, pool.Submit(func() (int, error) { return 0, nil }).Err())
}
