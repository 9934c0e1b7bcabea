package enums

import "fmt"

// GameStatus controls whether a game is visible on the storefront.
// The wire format is the integer value, matching the stored column.
type GameStatus int

const (
	GameStatusActive  GameStatus = 0
	GameStatusBlocked GameStatus = 1
)

var validGameStatuses = []GameStatus{
	GameStatusActive,
	GameStatusBlocked,
}

// String implements fmt.Stringer.
func (g GameStatus) String() string {
	switch g {
	case GameStatusActive:
		return "active"
	case GameStatusBlocked:
		return "blocked"
	}
	return fmt.Sprintf("game_status(%d)", int(g))
}

// IsValid reports whether the value is a known GameStatus.
func (g GameStatus) IsValid() bool {
	for _, candidate := range validGameStatuses {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGameStatus converts raw input into a GameStatus.
func ParseGameStatus(value int) (GameStatus, error) {
	status := GameStatus(value)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid game status %d", value)
	}
	return status, nil
}
