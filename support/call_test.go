package support_test

import (
	"testing"

	"github.com/Magicianred/vbscripttranslator/support"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	label support.Value
}

func (w *widget) Label(s *support.Support) support.Value {
	return w.label
}

func (w *widget) SetLabel(s *support.Support, v support.Value) {
	w.label = v
}

func (w *widget) Describe(s *support.Support, prefix support.Value) support.Value {
	return s.CONCAT(prefix, w.label)
}

func TestCallDispatchesThroughReflection(t *testing.T) {
	s := support.New()
	w := &widget{label: support.StringValue("thing")}
	obj := support.ObjectValue(w)

	assert.Equal(t, support.StringValue("thing"), s.CALL(obj, []string{"label"}))
	assert.Equal(t, support.StringValue("a thing"),
		s.CALL(obj, []string{"describe"}, support.StringValue("a ")))

	// Member names match case-insensitively.
	assert.Equal(t, support.StringValue("thing"), s.CALL(obj, []string{"LABEL"}))
}

func TestCallErrors(t *testing.T) {
	s := support.New()
	obj := support.ObjectValue(&widget{})
	expectRuntimeError(t, support.ErrTypeMismatch, func() {
		s.CALL(obj, []string{"missing"})
	})
	expectRuntimeError(t, support.ErrTypeMismatch, func() {
		s.CALL(obj, []string{"describe"})
	})
	expectRuntimeError(t, support.ErrObjectRequired, func() {
		s.CALL(support.Int16Value(1), []string{"label"})
	})
	expectRuntimeError(t, support.ErrObjectVariableNotSet, func() {
		s.CALL(support.NothingValue(), []string{"label"})
	})
}

func TestSetThroughReflection(t *testing.T) {
	s := support.New()
	w := &widget{}
	obj := support.ObjectValue(w)

	s.SET(support.StringValue("named"), obj, "Label")
	assert.Equal(t, support.StringValue("named"), w.label)
}

type memberBag struct {
	values map[string]support.Value
}

func (b *memberBag) InvokeMember(name string, args []support.Value) support.Value {
	return b.values[name]
}

func (b *memberBag) SetMember(name string, args []support.Value, value support.Value) {
	b.values[name] = value
}

func TestMemberProviderBypassesReflection(t *testing.T) {
	s := support.New()
	bag := &memberBag{values: map[string]support.Value{}}
	obj := support.ObjectValue(bag)

	s.SET(support.Int16Value(5), obj, "count")
	assert.Equal(t, support.Int16Value(5), s.CALL(obj, []string{"count"}))
}

func TestArrays(t *testing.T) {
	s := support.New()
	arr := s.NEWARRAY(support.Int16Value(2))

	s.SET(support.StringValue("x"), arr, "", support.Int16Value(1))
	assert.Equal(t, support.StringValue("x"), s.CALL(arr, nil, support.Int16Value(1)))
	assert.Equal(t, support.EmptyValue(), s.CALL(arr, nil, support.Int16Value(0)))

	expectRuntimeError(t, support.ErrOutOfRange, func() {
		s.CALL(arr, nil, support.Int16Value(3))
	})
}

func TestMultiDimensionalArrays(t *testing.T) {
	s := support.New()
	arr := s.NEWARRAY(support.Int16Value(1), support.Int16Value(2))

	s.SET(support.Int16Value(42), arr, "", support.Int16Value(1), support.Int16Value(2))
	assert.Equal(t, support.Int16Value(42),
		s.CALL(arr, nil, support.Int16Value(1), support.Int16Value(2)))

	expectRuntimeError(t, support.ErrOutOfRange, func() {
		s.CALL(arr, nil, support.Int16Value(1))
	})
}

func TestResizeArray(t *testing.T) {
	s := support.New()
	arr := s.NEWARRAY(support.Int16Value(2))
	s.SET(support.StringValue("keep"), arr, "", support.Int16Value(0))

	preserved := s.RESIZEARRAY(arr, true, support.Int16Value(5))
	assert.Equal(t, support.StringValue("keep"), s.CALL(preserved, nil, support.Int16Value(0)))

	discarded := s.RESIZEARRAY(arr, false, support.Int16Value(5))
	assert.Equal(t, support.EmptyValue(), s.CALL(discarded, nil, support.Int16Value(0)))
}

func TestEnumerate(t *testing.T) {
	s := support.New()
	arr := s.ARRAY(support.Int16Value(1), support.Int16Value(2))
	elems := s.ENUMERATE(arr)
	require.Len(t, elems, 2)
	assert.Equal(t, support.Int16Value(1), elems[0])

	expectRuntimeError(t, support.ErrTypeMismatch, func() {
		s.ENUMERATE(support.Int16Value(1))
	})
}

func TestForContinue(t *testing.T) {
	s := support.New()
	assert.True(t, s.FORCONTINUE(support.Int16Value(1), support.Int16Value(3), support.Int16Value(1)))
	assert.False(t, s.FORCONTINUE(support.Int16Value(4), support.Int16Value(3), support.Int16Value(1)))
	assert.True(t, s.FORCONTINUE(support.Int16Value(3), support.Int16Value(1), support.Int16Value(-1)))
	assert.False(t, s.FORCONTINUE(support.Int16Value(0), support.Int16Value(1), support.Int16Value(-1)))
}

func TestRefBoxesValues(t *testing.T) {
	s := support.New()
	boxed := s.REF(support.Int16Value(1))
	require.NotNil(t, boxed)
	*boxed = support.Int16Value(2)
	assert.Equal(t, support.Int16Value(2), *boxed)
}

func TestCreateObjectFactories(t *testing.T) {
	s := support.New()
	s.RegisterObjectFactory("Scripting.Thing", func() any { return &widget{label: support.StringValue("made")} })

	obj := s.CREATEOBJECT(support.StringValue("scripting.thing"))
	assert.Equal(t, support.StringValue("made"), s.CALL(obj, []string{"label"}))

	expectRuntimeError(t, support.ErrTypeMismatch, func() {
		s.CREATEOBJECT(support.StringValue("missing"))
	})
}
