package enums

import "fmt"

// KeyStatus tracks a license key through its inventory lifecycle. A key is
// only ever exposed to a buyer once it is assigned to a completed order.
type KeyStatus int

const (
	KeyStatusAvailable KeyStatus = 0
	KeyStatusAssigned  KeyStatus = 1
	KeyStatusCancelled KeyStatus = 2
)

var validKeyStatuses = []KeyStatus{
	KeyStatusAvailable,
	KeyStatusAssigned,
	KeyStatusCancelled,
}

// String implements fmt.Stringer.
func (k KeyStatus) String() string {
	switch k {
	case KeyStatusAvailable:
		return "available"
	case KeyStatusAssigned:
		return "assigned"
	case KeyStatusCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("key_status(%d)", int(k))
}

// IsValid reports whether the value is a known KeyStatus.
func (k KeyStatus) IsValid() bool {
	for _, candidate := range validKeyStatuses {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseKeyStatus converts raw input into a KeyStatus.
func ParseKeyStatus(value int) (KeyStatus, error) {
	status := KeyStatus(value)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid key status %d", value)
	}
	return status, nil
}
