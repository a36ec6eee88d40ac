package optional

// Optional carries a value that may be absent. Iterators use it to signal the
// end of a sequence without a sentinel value of T.
type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

func (self Optional[T]) Value() T {
	return self.value
}

// Get returns the value and whether it is present.
func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

// ValueOr returns the value when present and def otherwise.
func (self Optional[T]) ValueOr(def T) T {
	if !self.present {
		return def
	}
	return self.value
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
