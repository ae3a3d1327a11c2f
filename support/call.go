package support

import (
	"reflect"
	"strings"
)

// MemberProvider lets an object handle member invocation itself instead of
// going through reflection.
type MemberProvider interface {
	InvokeMember(name string, args []Value) Value
}

// MemberSetter lets an object handle member assignment itself.
type MemberSetter interface {
	SetMember(name string, args []Value, value Value)
}

// Enumerable is implemented by objects that can drive a For Each loop.
type Enumerable interface {
	Enumerate() []Value
}

func foldName(name string) string {
	return strings.ToLower(name)
}

// CALL resolves a member access chain against a target and invokes the final
// member with the given arguments. With no members, arguments index into an
// array target.
func (s *Support) CALL(target Value, members []string, args ...Value) Value {
	if len(members) == 0 {
		if len(args) == 0 {
			return target
		}
		if target.Tag == TagArray {
			return s.arrayGet(target, args)
		}
		raise(ErrTypeMismatch, "%s cannot be called with arguments", TypeName(target))
	}
	current := target
	for i, member := range members {
		if i < len(members)-1 {
			current = s.invokeMember(current, member, nil)
			continue
		}
		current = s.invokeMember(current, member, args)
	}
	return current
}

// SET assigns a value through a member access chain (a.b = v, a.b(i) = v).
func (s *Support) SET(value Value, target Value, member string, args ...Value) {
	if member == "" {
		if target.Tag == TagArray {
			s.arraySet(target, args, value)
			return
		}
		raise(ErrTypeMismatch, "%s cannot be indexed", TypeName(target))
	}
	obj := s.requireObject(target)
	if setter, ok := obj.(MemberSetter); ok {
		setter.SetMember(foldName(member), args, value)
		return
	}
	s.reflectInvoke(obj, "set"+member, append(append([]Value{}, args...), value))
}

func (s *Support) requireObject(v Value) any {
	if v.Tag == TagNothing {
		raise(ErrObjectVariableNotSet, "object variable not set")
	}
	if v.Tag != TagObject {
		raise(ErrObjectRequired, "member access on %s", TypeName(v))
	}
	return v.Obj
}

func (s *Support) invokeMember(target Value, member string, args []Value) Value {
	if target.Tag == TagArray && len(args) > 0 {
		return s.arrayGet(target, args)
	}
	obj := s.requireObject(target)
	if provider, ok := obj.(MemberProvider); ok {
		return provider.InvokeMember(foldName(member), args)
	}
	return s.reflectInvoke(obj, member, args)
}

// reflectInvoke finds an exported method whose name matches the member
// case-insensitively. Generated class methods take the facade as their first
// parameter and Values thereafter.
func (s *Support) reflectInvoke(obj any, member string, args []Value) Value {
	rv := reflect.ValueOf(obj)
	rt := rv.Type()
	var method reflect.Value
	for i := 0; i < rt.NumMethod(); i++ {
		if strings.EqualFold(rt.Method(i).Name, member) {
			method = rv.Method(i)
			break
		}
	}
	if !method.IsValid() {
		raise(ErrTypeMismatch, "object does not support member %q", member)
	}
	mt := method.Type()
	in := make([]reflect.Value, 0, len(args)+1)
	next := 0
	if mt.NumIn() > 0 && mt.In(0) == reflect.TypeOf(s) {
		in = append(in, reflect.ValueOf(s))
	}
	for i := len(in); i < mt.NumIn(); i++ {
		if next >= len(args) {
			raise(ErrTypeMismatch, "wrong number of arguments for %q", member)
		}
		arg := args[next]
		next++
		if mt.In(i) == reflect.TypeOf(&arg) {
			copied := arg
			in = append(in, reflect.ValueOf(&copied))
			continue
		}
		in = append(in, reflect.ValueOf(arg))
	}
	if next != len(args) {
		raise(ErrTypeMismatch, "wrong number of arguments for %q", member)
	}
	out := method.Call(in)
	if len(out) == 0 {
		return EmptyValue()
	}
	result, ok := out[0].Interface().(Value)
	if !ok {
		raise(ErrTypeMismatch, "member %q did not produce a value", member)
	}
	return result
}

// NEW registers an object for end-of-request disposal and wraps it.
func (s *Support) NEW(obj any) Value {
	if disposable, ok := obj.(Disposable); ok {
		s.disposables = append(s.disposables, disposable)
	}
	return ObjectValue(obj)
}

// NEWARRAY builds an array value with the given inclusive upper bounds.
func (s *Support) NEWARRAY(bounds ...Value) Value {
	dims := make([]int, len(bounds))
	for i, b := range bounds {
		n, isNull := s.toDouble(b)
		if isNull {
			raise(ErrInvalidUseOfNull, "array bound may not be Null")
		}
		dims[i] = int(n)
	}
	return Value{Tag: TagArray, Obj: newArray(dims)}
}

// RESIZEARRAY re-dimensions an array, optionally preserving the elements
// that still fit.
func (s *Support) RESIZEARRAY(current Value, preserve bool, bounds ...Value) Value {
	resized := s.NEWARRAY(bounds...)
	if !preserve || current.Tag != TagArray {
		return resized
	}
	old := current.Obj.(*Array)
	replacement := resized.Obj.(*Array)
	if len(old.Bounds) != len(replacement.Bounds) {
		raise(ErrOutOfRange, "ReDim Preserve cannot change the number of dimensions")
	}
	count := len(old.Elems)
	if len(replacement.Elems) < count {
		count = len(replacement.Elems)
	}
	copy(replacement.Elems, old.Elems[:count])
	return resized
}

func (s *Support) arrayIndexes(args []Value) []int {
	indexes := make([]int, len(args))
	for i, a := range args {
		n, isNull := s.toDouble(a)
		if isNull {
			raise(ErrInvalidUseOfNull, "array index may not be Null")
		}
		indexes[i] = int(n)
	}
	return indexes
}

func (s *Support) arrayGet(v Value, args []Value) Value {
	arr := v.Obj.(*Array)
	return arr.Elems[arr.offset(s.arrayIndexes(args))]
}

func (s *Support) arraySet(v Value, args []Value, value Value) {
	arr := v.Obj.(*Array)
	arr.Elems[arr.offset(s.arrayIndexes(args))] = value
}

// ENUMERATE yields the elements a For Each loop visits.
func (s *Support) ENUMERATE(v Value) []Value {
	if v.Tag == TagArray {
		return v.Obj.(*Array).Elems
	}
	obj := s.requireObject(v)
	if enumerable, ok := obj.(Enumerable); ok {
		return enumerable.Enumerate()
	}
	raise(ErrTypeMismatch, "%s is not enumerable", TypeName(v))
	return nil
}

// FORCONTINUE is the loop guard for counted For loops: direction follows the
// sign of the step.
func (s *Support) FORCONTINUE(counter, end, step Value) bool {
	c, cNull := s.toDouble(counter)
	e, eNull := s.toDouble(end)
	st, stNull := s.toDouble(step)
	if cNull || eNull || stNull {
		raise(ErrInvalidUseOfNull, "loop bound may not be Null")
	}
	if st >= 0 {
		return c <= e
	}
	return c >= e
}

// REF boxes a value so a non-variable argument can fill a by-ref slot; the
// write-back is discarded, matching by-value behaviour.
func (s *Support) REF(v Value) *Value {
	boxed := v
	return &boxed
}
