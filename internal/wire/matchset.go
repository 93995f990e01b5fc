package wire

import (
	"slices"

	"strive-tracker/internal/domain"
)

// MatchSet keeps decoded matches sorted and deduplicated across pages.
// Two matches are the same entry when every field compares equal, so a
// record that appears on two consecutive pages collapses to one.
type MatchSet struct {
	matches []domain.Match
}

func NewMatchSet() *MatchSet {
	return &MatchSet{}
}

// Insert adds a match unless an equal one is already present. It reports
// whether the set grew.
func (s *MatchSet) Insert(m domain.Match) bool {
	i, found := slices.BinarySearchFunc(s.matches, m, domain.Match.Compare)
	if found {
		return false
	}
	s.matches = slices.Insert(s.matches, i, m)
	return true
}

// InsertAll inserts every match and returns how many were new.
func (s *MatchSet) InsertAll(matches []domain.Match) int {
	added := 0
	for _, m := range matches {
		if s.Insert(m) {
			added++
		}
	}
	return added
}

func (s *MatchSet) Len() int {
	return len(s.matches)
}

// Matches returns the set contents in sorted order. The slice is a copy;
// the set does not share its backing storage.
func (s *MatchSet) Matches() []domain.Match {
	return slices.Clone(s.matches)
}
