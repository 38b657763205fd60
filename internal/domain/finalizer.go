package domain

// Finalizer acknowledges one shipped record back to its producer. It is
// invoked with nil on successful delivery and with the delivery error
// otherwise.
type Finalizer func(error)

// Finalizers is a set of acknowledgment handles owed to upstream producers.
// The zero value is an empty set.
type Finalizers []Finalizer

// Merge appends every handle from other. No handle is dropped or duplicated.
func (f *Finalizers) Merge(other Finalizers) {
	*f = append(*f, other...)
}

// Notify invokes every handle with the delivery outcome and empties the
// set, so each handle fires exactly once and a second Notify is a no-op.
func (f *Finalizers) Notify(err error) {
	for _, fn := range *f {
		if fn != nil {
			fn(err)
		}
	}
	*f = nil
}
