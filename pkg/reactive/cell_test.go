package reactive

import (
	"errors"
	"testing"
)

func TestCellBasic(t *testing.T) {
	count := New(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestCellNotifiesInOrderAfterStore(t *testing.T) {
	c := New("a")
	var calls []string

	for _, name := range []string{"first", "second", "third"} {
		name := name
		c.Watch(func(v string) {
			if c.Get() != v {
				t.Errorf("%s saw %q while cell holds %q", name, v, c.Get())
			}
			calls = append(calls, name+":"+v)
		})
	}

	c.Set("b")

	want := []string{"first:b", "second:b", "third:b"}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d: %v", len(calls), len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestCellNoEqualityCheck(t *testing.T) {
	c := New(1)
	n := 0
	c.Watch(func(int) { n++ })

	c.Set(1)
	c.Set(1)
	if n != 2 {
		t.Errorf("same value should still notify, got %d notifications", n)
	}
}

func TestCellUpdateNotifies(t *testing.T) {
	c := New([]int{1, 2})
	var got []int
	c.Watch(func(v []int) { got = v })

	c.Update(func(prev []int) []int { return append(prev, 3) })
	if len(got) != 3 || got[2] != 3 {
		t.Errorf("watcher got %v, want [1 2 3]", got)
	}
}

func TestCellSameFuncTwice(t *testing.T) {
	c := New(0)
	n := 0
	fn := func(int) { n++ }

	c.Watch(fn)
	c.Watch(fn)
	c.Set(1)

	if n != 2 {
		t.Errorf("expected 2 notifications for a func watched twice, got %d", n)
	}
}

func TestCellCancel(t *testing.T) {
	c := New(0)
	var a, b int
	cancelA := c.Watch(func(int) { a++ })
	c.Watch(func(int) { b++ })

	cancelA()
	cancelA()
	c.Set(1)

	if a != 0 {
		t.Errorf("cancelled watcher ran %d times", a)
	}
	if b != 1 {
		t.Errorf("remaining watcher ran %d times, want 1", b)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCellCancelKeepsOrder(t *testing.T) {
	c := New(0)
	var order []int
	c.Watch(func(int) { order = append(order, 1) })
	cancel := c.Watch(func(int) { order = append(order, 2) })
	c.Watch(func(int) { order = append(order, 3) })
	c.Watch(func(int) { order = append(order, 4) })

	cancel()
	c.Set(1)

	want := []int{1, 3, 4}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestCellCancelDuringNotify(t *testing.T) {
	c := New(0)
	var second int
	var cancelSecond func()
	c.Watch(func(int) { cancelSecond() })
	cancelSecond = c.Watch(func(int) { second++ })

	// The fan-out works on a snapshot, so the second watcher still sees
	// this write but none after it.
	c.Set(1)
	c.Set(2)

	if second != 1 {
		t.Errorf("second watcher ran %d times, want 1", second)
	}
}

func TestCellIDsUnique(t *testing.T) {
	a, b := New(0), New("")
	if a.ID() == b.ID() {
		t.Errorf("cells share id %d", a.ID())
	}
}

func TestSourceSetValue(t *testing.T) {
	tests := []struct {
		name    string
		src     Source
		in      any
		want    any
		wantErr bool
	}{
		{name: "string", src: New(""), in: "hi", want: "hi"},
		{name: "bool from bool", src: New(false), in: true, want: true},
		{name: "bool from string", src: New(false), in: "true", want: true},
		{name: "bool from empty", src: New(true), in: "", want: false},
		{name: "int from string", src: New(0), in: "42", want: 42},
		{name: "float from string", src: New(0.0), in: "1.5", want: 1.5},
		{name: "string from int", src: New(""), in: 7, want: "7"},
		{name: "int from garbage", src: New(0), in: "x", wantErr: true},
		{name: "bool from int", src: New(false), in: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.src.SetValue(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrNotAssignable) {
					t.Fatalf("SetValue(%v) err = %v, want ErrNotAssignable", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetValue(%v): %v", tt.in, err)
			}
			if tt.src.Value() != tt.want {
				t.Errorf("Value() = %v, want %v", tt.src.Value(), tt.want)
			}
		})
	}
}

func TestSourceWatchValue(t *testing.T) {
	c := New(1)
	var src Source = c
	var got any
	cancel := src.WatchValue(func(v any) { got = v })

	c.Set(2)
	if got != 2 {
		t.Errorf("WatchValue saw %v, want 2", got)
	}

	cancel()
	c.Set(3)
	if got != 2 {
		t.Errorf("cancelled WatchValue saw %v", got)
	}
}
