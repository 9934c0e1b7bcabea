package enums

// CallbackState is the terminal UI state derived from a payment redirect.
// It is a pure classification of the returned status token; the real order
// state is only ever observed through the orders API.
type CallbackState string

const (
	CallbackStateSuccess CallbackState = "success"
	CallbackStatePending CallbackState = "pending"
	CallbackStateFailure CallbackState = "failure"
)

// String implements fmt.Stringer.
func (c CallbackState) String() string {
	return string(c)
}
