package user

// Members is an insertion-ordered set of users keyed by ID.
type Members []User

// Contains reports whether a user with the given ID is in the set.
func (m Members) Contains(id int64) bool {
	return m.index(id) >= 0
}

// Add inserts u unless a user with the same ID is already present.
// It reports whether the set changed.
func (m *Members) Add(u User) bool {
	if m.Contains(u.ID) {
		return false
	}
	*m = append(*m, u)
	return true
}

// Remove deletes the user with the given ID. It reports whether the set changed.
func (m *Members) Remove(id int64) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	*m = append((*m)[:i], (*m)[i+1:]...)
	return true
}

// IDs returns member IDs in insertion order.
func (m Members) IDs() []int64 {
	ids := make([]int64, len(m))
	for i := range m {
		ids[i] = m[i].ID
	}
	return ids
}

// Clone returns an independent copy of the set.
func (m Members) Clone() Members {
	if m == nil {
		return nil
	}
	out := make(Members, len(m))
	copy(out, m)
	return out
}

func (m Members) index(id int64) int {
	for i := range m {
		if m[i].ID == id {
			return i
		}
	}
	return -1
}
