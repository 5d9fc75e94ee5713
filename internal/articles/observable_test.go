package articles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObservableNotifiesOnFlush(t *testing.T) {
	o := newComparable(1)

	var got []int
	o.Subscribe(func(v int) { got = append(got, v) })

	o.set(2)
	assert.Equal(t, 2, o.Get())
	assert.Empty(t, got, "set alone must not notify")

	o.flush()
	o.flush()
	assert.Equal(t, []int{2}, got)
}

func TestObservableSkipsEqualValues(t *testing.T) {
	o := newComparable("a")

	calls := 0
	o.Subscribe(func(string) { calls++ })

	o.set("a")
	o.flush()
	assert.Zero(t, calls)
}

func TestObservableWithoutEqualityAlwaysNotifies(t *testing.T) {
	o := newObservable[[]int](nil, nil)

	calls := 0
	o.Subscribe(func([]int) { calls++ })

	o.set([]int{1})
	o.flush()
	o.set([]int{1})
	o.flush()
	assert.Equal(t, 2, calls)
}

func TestObservableUnsubscribe(t *testing.T) {
	o := newComparable(0)

	var a, b int
	unsubscribeA := o.Subscribe(func(v int) { a = v })
	o.Subscribe(func(v int) { b = v })

	unsubscribeA()
	o.set(7)
	o.flush()

	assert.Zero(t, a)
	assert.Equal(t, 7, b)
}

func TestObservableClear(t *testing.T) {
	o := newComparable(0)

	calls := 0
	o.Subscribe(func(int) { calls++ })
	o.clear()

	o.set(1)
	o.flush()
	assert.Zero(t, calls)
	assert.Equal(t, 1, o.Get())
}
