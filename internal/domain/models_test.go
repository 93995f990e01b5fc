package domain

import (
	"testing"
	"time"
)

func TestMatchCompareTotalOrder(t *testing.T) {
	base := Match{
		Floor:     Floor5,
		Timestamp: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
		Players: [2]Player{
			{ID: 10, Name: "a", Character: CharSol},
			{ID: 20, Name: "b", Character: CharKy},
		},
		Winner: WinnerPlayer1,
	}

	if base.Compare(base) != 0 || !base.Equal(base) {
		t.Error("match does not compare equal to itself")
	}

	higherFloor := base
	higherFloor.Floor = FloorCelestial
	if base.Compare(higherFloor) >= 0 {
		t.Error("lower floor should sort first")
	}

	later := base
	later.Timestamp = base.Timestamp.Add(time.Second)
	if base.Compare(later) >= 0 {
		t.Error("earlier timestamp should sort first")
	}

	otherPlayer := base
	otherPlayer.Players[0].ID = 11
	if base.Compare(otherPlayer) >= 0 {
		t.Error("smaller player id should sort first")
	}

	otherWinner := base
	otherWinner.Winner = WinnerPlayer2
	if base.Compare(otherWinner) >= 0 {
		t.Error("winner is the final tiebreak")
	}
}
