package enums

import "fmt"

// UserStatus gates whether an account may authenticate.
type UserStatus int

const (
	UserStatusActive  UserStatus = 0
	UserStatusBlocked UserStatus = 1
)

var validUserStatuses = []UserStatus{
	UserStatusActive,
	UserStatusBlocked,
}

// String implements fmt.Stringer.
func (u UserStatus) String() string {
	switch u {
	case UserStatusActive:
		return "active"
	case UserStatusBlocked:
		return "blocked"
	}
	return fmt.Sprintf("user_status(%d)", int(u))
}

// IsValid reports whether the value is a known UserStatus.
func (u UserStatus) IsValid() bool {
	for _, candidate := range validUserStatuses {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserStatus converts raw input into a UserStatus.
func ParseUserStatus(value int) (UserStatus, error) {
	status := UserStatus(value)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid user status %d", value)
	}
	return status, nil
}
