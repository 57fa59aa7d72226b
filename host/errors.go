package host

import "errors"

var (
	ErrNotFound           = errors.New("host: account not found")
	ErrAlreadyExists      = errors.New("host: account already exists")
	ErrInvalidAccountWire = errors.New("host: invalid account wire bytes")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
