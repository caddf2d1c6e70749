package jobs

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/kiln/engine/core"
)

func TestNewSystem_Validation(t *testing.T) {
	_, err := NewSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestSystem_CallbacksRunOnUpdate(t *testing.T) {
	js, err := NewSystem(2, 4)
	require.NoError(t, err)
	defer js.Close()

	var completed, failed atomic.Int32
	var result any
	require.NoError(t, js.Submit(Job{
		Name:       "ok",
		Run:        func() (any, error) { return 42, nil },
		OnComplete: func(r any) { result = r; completed.Add(1) },
	}))
	require.NoError(t, js.Submit(Job{
		Name:      "boom",
		Run:       func() (any, error) { return nil, errors.New("boom") },
		OnFailure: func(error) { failed.Add(1) },
	}))

	require.Eventually(t, func() bool {
		js.mu.Lock()
		defer js.mu.Unlock()
		return len(js.completed) == 2
	}, time.Second, time.Millisecond)

	assert.Zero(t, completed.Load(), "callbacks wait for Update")
	assert.Equal(t, 2, js.Pending())

	require.NoError(t, js.Update(core.GameTime{}))
	assert.EqualValues(t, 1, completed.Load())
	assert.EqualValues(t, 1, failed.Load())
	assert.Equal(t, 42, result)
	assert.Equal(t, 0, js.Pending())
}

func TestSystem_SubmitAfterClose(t *testing.T) {
	js, err := NewSystem(1, 0)
	require.NoError(t, err)

	require.NoError(t, js.Close())
	assert.ErrorIs(t, js.Submit(Job{Name: "late"}), ErrJobSystemClosed)
	assert.NoError(t, js.Close())
}

func TestSystem_RunsFirst(t *testing.T) {
	js, err := NewSystem(1, 0)
	require.NoError(t, err)
	defer js.Close()

	assert.True(t, js.Enabled())
	assert.Less(t, js.UpdateOrder(), -1000000)
	assert.Equal(t, "kiln.jobs", js.Name())
}
