package support_test

import (
	"testing"

	"github.com/Magicianred/vbscripttranslator/support"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectRuntimeError asserts that the callback raises a runtime contract
// error of the given kind.
func expectRuntimeError(t *testing.T, kind support.ErrorKind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a runtime error")
		err, ok := r.(*support.RuntimeError)
		require.True(t, ok, "expected *RuntimeError, got %T", r)
		assert.Equal(t, kind, err.Kind)
	}()
	fn()
}

func TestDisposeRunsInReverseOrderAndSwallowsFailures(t *testing.T) {
	s := support.New()
	var order []string
	s.NEW(&disposableProbe{name: "first", order: &order})
	s.NEW(&disposableProbe{name: "second", order: &order, explode: true})
	s.NEW(&disposableProbe{name: "third", order: &order})

	s.Dispose()
	assert.Equal(t, []string{"third", "second", "first"}, order)

	// A second dispose is a no-op.
	s.Dispose()
	assert.Len(t, order, 3)
}

type disposableProbe struct {
	name    string
	order   *[]string
	explode bool
}

func (d *disposableProbe) Dispose() {
	*d.order = append(*d.order, d.name)
	if d.explode {
		panic("cleanup failure")
	}
}
