package favorites

import "slices"

// Store holds the favorite product ids of one client in insertion order.
type Store struct {
	ids []int
}

func NewStore(initial []int) *Store {
	ids := make([]int, 0, len(initial))
	for _, id := range initial {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	return &Store{ids: ids}
}

// Toggle adds id when absent and removes it otherwise.
func (s *Store) Toggle(id int) ([]int, bool) {
	if s.Contains(id) {
		s.ids = slices.DeleteFunc(s.ids, func(favorite int) bool { return favorite == id })
		return s.IDs(), false
	}

	s.ids = append(s.ids, id)
	return s.IDs(), true
}

func (s *Store) Contains(id int) bool {
	return slices.Contains(s.ids, id)
}

func (s *Store) IDs() []int {
	return slices.Clone(s.ids)
}
