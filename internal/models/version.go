package models

// VersionVector maps an actor id to the highest sequence number of that
// actor for which every earlier sequence number has been seen as well.
type VersionVector map[string]uint64

// Get возвращает последний непрерывный seq актора (0, если актор неизвестен)
func (v VersionVector) Get(actor string) uint64 {
	if v == nil {
		return 0
	}
	return v[actor]
}

// Includes reports whether the operation is covered by the vector.
func (v VersionVector) Includes(op Operation) bool {
	return op.Seq != 0 && op.Seq <= v.Get(op.ID.Actor)
}

// Clone создает глубокую копию вектора
func (v VersionVector) Clone() VersionVector {
	c := make(VersionVector, len(v))
	for actor, seq := range v {
		c[actor] = seq
	}
	return c
}

// Merge поднимает каждый счетчик до максимума из двух векторов
func (v VersionVector) Merge(other VersionVector) {
	for actor, seq := range other {
		if seq > v[actor] {
			v[actor] = seq
		}
	}
}

// Observe advances the actor's entry when seq is the next contiguous value.
// Returns true if the vector changed.
func (v VersionVector) Observe(actor string, seq uint64) bool {
	if seq != v[actor]+1 {
		return false
	}
	v[actor] = seq
	return true
}

// Covers reports whether v has seen everything other has.
func (v VersionVector) Covers(other VersionVector) bool {
	for actor, seq := range other {
		if v.Get(actor) < seq {
			return false
		}
	}
	return true
}
