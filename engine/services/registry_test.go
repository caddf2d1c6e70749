package services

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock interface {
	Now() int
}

type fixedClock struct{ now int }

func (c *fixedClock) Now() int { return c.now }

type counter struct{ n int }

func TestRegistry_AddGet(t *testing.T) {
	r := NewRegistry()
	c := &fixedClock{now: 42}

	require.NoError(t, AddService[clock](r, c))
	got, err := GetService[clock](r)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Now())
	assert.True(t, HasService[clock](r))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DuplicateService(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, AddService(r, &counter{}))

	err := AddService(r, &counter{n: 1})
	assert.ErrorIs(t, err, ErrDuplicateService)

	got := MustGetService[*counter](r)
	assert.Equal(t, 0, got.n)
}

func TestRegistry_ServiceNotFound(t *testing.T) {
	r := NewRegistry()

	_, err := GetService[clock](r)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	assert.Panics(t, func() { MustGetService[*counter](r) })
}

func TestRegistry_NoBaseTypeFallback(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, AddService(r, &fixedClock{}))

	// registered under the concrete type only
	_, err := GetService[clock](r)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestRegistry_TypeMismatch(t *testing.T) {
	r := NewRegistry()

	err := r.Add(reflect.TypeOf((*io.Reader)(nil)).Elem(), &counter{})
	assert.ErrorIs(t, err, ErrServiceType)

	err = r.Add(reflect.TypeOf((*io.Reader)(nil)).Elem(), strings.NewReader("x"))
	assert.NoError(t, err)

	var nilCounter *counter
	assert.ErrorIs(t, AddService(r, nilCounter), ErrServiceType)
	assert.ErrorIs(t, r.Add(reflect.TypeOf(&counter{}), nil), ErrServiceType)
	assert.ErrorIs(t, r.Add(nil, &counter{}), ErrServiceType)
}

func TestRegistry_RemoveThenReadd(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, AddService(r, &counter{n: 1}))

	assert.True(t, RemoveService[*counter](r))
	assert.False(t, RemoveService[*counter](r))

	require.NoError(t, AddService(r, &counter{n: 2}))
	assert.Equal(t, 2, MustGetService[*counter](r).n)
}

func TestRegistry_Types(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, AddService(r, &counter{}))
	require.NoError(t, AddService[fmt.Stringer](r, &strings.Builder{}))

	assert.Equal(t, []string{"*services.counter", "fmt.Stringer"}, r.Types())
}
