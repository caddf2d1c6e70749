// Package services is a type-keyed lookup table components use to find their
// collaborators. A type holds at most one instance and lookups never fall
// back to a related type.
package services

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var (
	ErrDuplicateService = errors.New("duplicate service")
	ErrServiceNotFound  = errors.New("service not found")
	ErrServiceType      = errors.New("service does not implement the requested type")
)

type Registry struct {
	mu       sync.RWMutex
	services map[reflect.Type]any
}

func NewRegistry() *Registry {
	return &Registry{
		services: make(map[reflect.Type]any),
	}
}

// Add registers svc under t. svc must be non-nil and assignable to t.
func (r *Registry) Add(t reflect.Type, svc any) error {
	if t == nil {
		return fmt.Errorf("%w: nil service type", ErrServiceType)
	}
	if svc == nil {
		return fmt.Errorf("%w: nil instance for %s", ErrServiceType, t)
	}
	if v := reflect.ValueOf(svc); isNilable(v.Kind()) && v.IsNil() {
		return fmt.Errorf("%w: nil instance for %s", ErrServiceType, t)
	}
	if !reflect.TypeOf(svc).AssignableTo(t) {
		return fmt.Errorf("%w: %T is not assignable to %s", ErrServiceType, svc, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.services[t]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateService, t)
	}
	r.services[t] = svc
	return nil
}

// Get returns the instance registered under exactly t.
func (r *Registry) Get(t reflect.Type) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, t)
	}
	return svc, nil
}

// Remove drops the instance registered under t, if any.
func (r *Registry) Remove(t reflect.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[t]; !ok {
		return false
	}
	delete(r.services, t)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}

// Types lists the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.services))
	for t := range r.services {
		out = append(out, t.String())
	}
	sort.Strings(out)
	return out
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// AddService registers svc as the T service.
func AddService[T any](r *Registry, svc T) error {
	return r.Add(typeOf[T](), svc)
}

// GetService returns the T service.
func GetService[T any](r *Registry) (T, error) {
	var zero T
	svc, err := r.Get(typeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T is not %s", ErrServiceType, svc, typeOf[T]())
	}
	return typed, nil
}

// MustGetService is GetService for wiring code where a missing service is a
// programming error.
func MustGetService[T any](r *Registry) T {
	svc, err := GetService[T](r)
	if err != nil {
		panic(err)
	}
	return svc
}

func HasService[T any](r *Registry) bool {
	_, err := r.Get(typeOf[T]())
	return err == nil
}

func RemoveService[T any](r *Registry) bool {
	return r.Remove(typeOf[T]())
}

func isNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}
