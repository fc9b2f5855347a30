package datastructure

// IntsRef holds the encoded flags of an edge (access, speed, road class).
// The layout is owned by the encoder that wrote it.
type IntsRef []int32

func NewIntsRef(capacity int) IntsRef {
	return make(IntsRef, capacity)
}

func (r IntsRef) DeepCopy() IntsRef {
	if r == nil {
		return nil
	}
	cp := make(IntsRef, len(r))
	copy(cp, r)
	return cp
}

func (r IntsRef) Equal(other IntsRef) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

func (r IntsRef) Len() int {
	return len(r)
}
