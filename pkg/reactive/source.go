package reactive

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// ErrNotAssignable is returned by SetValue when a value cannot be converted
// to the cell's element type.
var ErrNotAssignable = errors.New("reactive: value not assignable to cell")

// Source is the type-erased view of a Cell. The template engine binds cells of
// any element type through it.
type Source interface {
	// ID returns the cell identifier.
	ID() uint64

	// Value returns the current value boxed as any.
	Value() any

	// WatchValue subscribes fn to changes and returns the cancel func.
	WatchValue(fn func(any)) (cancel func())

	// SetValue converts v to the element type and sets it.
	SetValue(v any) error
}

var _ Source = (*Cell[int])(nil)

// Value implements Source.
func (c *Cell[T]) Value() any {
	return c.value
}

// WatchValue implements Source.
func (c *Cell[T]) WatchValue(fn func(any)) func() {
	return c.Watch(func(v T) { fn(v) })
}

// SetValue implements Source. Host properties arrive as strings or bools, so
// those are parsed into numeric and boolean element types.
func (c *Cell[T]) SetValue(v any) error {
	converted, err := coerce[T](v)
	if err != nil {
		return err
	}
	c.Set(converted)
	return nil
}

func coerce[T any](v any) (T, error) {
	var zero T
	if t, ok := v.(T); ok {
		return t, nil
	}

	target := reflect.TypeOf((*T)(nil)).Elem()
	if v == nil {
		switch target.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map:
			return zero, nil
		}
		return zero, fmt.Errorf("%w: nil to %s", ErrNotAssignable, target)
	}

	src := reflect.ValueOf(v)
	out := reflect.New(target).Elem()

	switch target.Kind() {
	case reflect.String:
		out.SetString(fmt.Sprint(v))
		return out.Interface().(T), nil
	case reflect.Bool:
		b, err := parseBool(v)
		if err != nil {
			return zero, err
		}
		out.SetBool(b)
		return out.Interface().(T), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(fmt.Sprint(v), 10, target.Bits())
		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrNotAssignable, err)
		}
		out.SetInt(n)
		return out.Interface().(T), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(fmt.Sprint(v), 10, target.Bits())
		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrNotAssignable, err)
		}
		out.SetUint(n)
		return out.Interface().(T), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(fmt.Sprint(v), target.Bits())
		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrNotAssignable, err)
		}
		out.SetFloat(f)
		return out.Interface().(T), nil
	}

	if src.Type().ConvertibleTo(target) {
		return src.Convert(target).Interface().(T), nil
	}
	return zero, fmt.Errorf("%w: %T to %s", ErrNotAssignable, v, target)
}

func parseBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if b == "" {
			return false, nil
		}
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrNotAssignable, err)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("%w: %T to bool", ErrNotAssignable, v)
}
