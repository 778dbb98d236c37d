package domain

// Command is an intent to change state, addressed to a single handler by name.
type Command[T any] interface {
	CommandName() string
	Payload() T
}
