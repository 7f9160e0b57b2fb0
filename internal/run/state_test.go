package run

import (
	"testing"
	"time"
)

func TestNewStateHasUniqueIDs(t *testing.T) {
	a := NewState(1, 1, "normal", false, 0, time.Now())
	b := NewState(1, 1, "normal", false, 0, time.Now())
	if a.ID == b.ID {
		t.Fatal("two runs share an id")
	}
}

func TestResetRoomKeepsRunTotals(t *testing.T) {
	s := NewState(1, 1, "normal", false, 0, time.Now())
	s.Gold, s.RoomGold, s.RoomHealth = 20, 5, 12
	s.ResetRoom()
	s.AddRoomClear()
	if s.Gold != 20 || s.RoomGold != 0 || s.RoomHealth != 0 || s.HeroXP != HeroXPPerRoom {
		t.Fatalf("state = %+v", s)
	}
}
