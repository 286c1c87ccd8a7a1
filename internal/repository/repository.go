package repository

import "github.com/google/uuid"

// newID returns a fresh unique id. Random ids make collisions
// effectively impossible, but uniqueness is an insertion invariant, not
// a property assumed from the generator, so the taken set is checked.
func newID(taken func(id string) bool) string {
	for {
		id := uuid.NewString()
		if !taken(id) {
			return id
		}
	}
}
