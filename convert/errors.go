package convert

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned by every facade operation
	// when no SPI implementation was discovered
	ErrNotConfigured = errors.New("no conversion SPI available, no conversion will be possible")

	ErrInvalidArgument = errors.New("invalid argument")
	ErrInconsistentSPI = errors.New("inconsistent conversion SPI")
	ErrRateNotFound    = errors.New("exchange rate not found")

	// ErrNoSuchProvider is an invalid-argument error
	ErrNoSuchProvider = fmt.Errorf("%w: no such rate provider", ErrInvalidArgument)
)
