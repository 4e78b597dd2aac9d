package x

// Validater is any struct that can be validated.
// Every persisted model and every message implements it.
type Validater interface {
	Validate() error
}
