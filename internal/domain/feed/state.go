package feed

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// State is the feed screen state. Master keeps source order and is never reordered;
// Shuffled is the one-time shuffle taken at load. Candidates is the sequence the current
// category pages through and Display its visible prefix.
type State struct {
	Master      []Item
	Shuffled    []Item
	Candidates  []Item
	Display     []Item
	Category    string
	Page        int
	ActiveIndex int
}

// NewState shuffles master once. A nil rng uses the global source.
func NewState(master []Item, rng *rand.Rand) State {
	shuffled := slices.Clone(master)
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}

	return State{
		Master:     slices.Clone(master),
		Shuffled:   shuffled,
		Candidates: shuffled,
		Display:    Paginate(shuffled, 1, PageSize),
		Category:   CategoryAll,
		Page:       1,
	}
}

// ApplyFilter re-derives candidates from the master list and keeps the current page boundary.
func ApplyFilter(state State, categoryID string) (State, error) {
	candidates, err := ApplyCategory(state.Master, categoryID)
	if err != nil {
		return state, err
	}

	next := state
	next.Category = categoryID
	next.Candidates = candidates
	next.Page = max(state.Page, 1)
	next.Display = Paginate(candidates, next.Page, PageSize)
	next.ActiveIndex = 0
	return next, nil
}

// LoadMore extends the display by one page. It is a no-op once every candidate is shown.
func LoadMore(state State) State {
	if !HasMore(state) {
		return state
	}
	next := state
	next.Page = state.Page + 1
	next.Display = Paginate(state.Candidates, next.Page, PageSize)
	return next
}

func HasMore(state State) bool {
	return state.Page*PageSize < len(state.Candidates)
}

func SetActive(state State, index int) (State, error) {
	if index < 0 || index >= len(state.Display) {
		return state, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(state.Display))
	}
	next := state
	next.ActiveIndex = index
	return next, nil
}

func IsActive(state State, index int) bool {
	return len(state.Display) > 0 && state.ActiveIndex == index
}
