package domain

import (
	"strings"
	"time"
)

// Player is one side of a decoded replay. Names come out of the wire
// format lossily decoded, so they may contain replacement characters.
type Player struct {
	ID        uint64
	Name      string
	Character Character
}

// Match is a single decoded replay record. It is never mutated after
// assembly.
type Match struct {
	Floor     Floor
	Timestamp time.Time
	Players   [2]Player
	Winner    Winner
}

// User is a player profile fetched from the statistics endpoint.
type User struct {
	ID          string
	SteamID     string
	Name        string
	Comment     string
	LastFetchAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Compare orders matches by floor, then timestamp, then both players,
// then winner. This is the total order replay sets are kept in.
func (m Match) Compare(o Match) int {
	if c := int(m.Floor) - int(o.Floor); c != 0 {
		return c
	}
	if c := m.Timestamp.Compare(o.Timestamp); c != 0 {
		return c
	}
	for i := range m.Players {
		if c := m.Players[i].compare(o.Players[i]); c != 0 {
			return c
		}
	}
	return int(m.Winner) - int(o.Winner)
}

func (m Match) Equal(o Match) bool {
	return m.Compare(o) == 0
}

func (p Player) compare(o Player) int {
	switch {
	case p.ID < o.ID:
		return -1
	case p.ID > o.ID:
		return 1
	}
	if c := strings.Compare(p.Name, o.Name); c != 0 {
		return c
	}
	return int(p.Character) - int(o.Character)
}
