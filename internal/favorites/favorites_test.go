package favorites

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		name          string
		initial       []int
		toggle        int
		expectedIDs   []int
		expectedAdded bool
	}{
		{name: "add to empty", initial: nil, toggle: 3, expectedIDs: []int{3}, expectedAdded: true},
		{name: "append", initial: []int{1, 2}, toggle: 3, expectedIDs: []int{1, 2, 3}, expectedAdded: true},
		{name: "remove", initial: []int{1, 2, 3}, toggle: 2, expectedIDs: []int{1, 3}, expectedAdded: false},
		{name: "duplicates collapse on load", initial: []int{4, 4}, toggle: 4, expectedIDs: []int{}, expectedAdded: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := NewStore(test.initial)

			ids, added := store.Toggle(test.toggle)

			assert.Equal(t, test.expectedIDs, ids)
			assert.Equal(t, test.expectedAdded, added)
			assert.Equal(t, added, store.Contains(test.toggle))
		})
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	store := NewStore([]int{5, 9})

	store.Toggle(7)
	ids, _ := store.Toggle(7)

	assert.Equal(t, []int{5, 9}, ids)
}

func TestIDsIsACopy(t *testing.T) {
	store := NewStore([]int{1})

	ids := store.IDs()
	ids[0] = 100

	assert.True(t, store.Contains(1))
}
