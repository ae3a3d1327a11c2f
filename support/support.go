package support

import "math/rand"

// CompareBinary and CompareText are the string comparison modes accepted by
// STRCOMP and the facade-wide default.
const (
	CompareBinary = 0
	CompareText   = 1
)

// Support is the runtime facade the emitted code calls. One instance serves
// one request; it is deliberately not safe for concurrent use (the trapped
// error slot, the token table and the disposables registry are per-request
// state).
type Support struct {
	compareMode          int
	errorTrappingEnabled bool

	trappedError *RuntimeError
	tokenStates  map[int]trapState
	freeTokens   []int
	nextToken    int

	disposables []Disposable
	factories   map[string]func() any
	rng         *rand.Rand
}

// New creates a facade for a single request with error trapping enabled and
// binary string comparison.
func New() *Support {
	return &Support{
		errorTrappingEnabled: true,
		tokenStates:          make(map[int]trapState),
		factories:            make(map[string]func() any),
		rng:                  rand.New(rand.NewSource(1)),
	}
}

// SetStringCompareMode sets the comparison mode used when STRCOMP is called
// without an explicit mode.
func (s *Support) SetStringCompareMode(mode int) {
	s.compareMode = mode
}

// SetErrorTrappingEnabled is the facade's global switch: when disabled,
// HANDLEERROR rethrows regardless of token state.
func (s *Support) SetErrorTrappingEnabled(enabled bool) {
	s.errorTrappingEnabled = enabled
}

// RegisterObjectFactory makes a host object constructible via CREATEOBJECT.
func (s *Support) RegisterObjectFactory(progID string, factory func() any) {
	s.factories[foldName(progID)] = factory
}

// Dispose runs registered end-of-request cleanups in reverse registration
// order. Cleanup failures are swallowed so one bad object cannot stop the
// rest.
func (s *Support) Dispose() {
	for i := len(s.disposables) - 1; i >= 0; i-- {
		func() {
			defer func() { _ = recover() }()
			s.disposables[i].Dispose()
		}()
	}
	s.disposables = nil
}
