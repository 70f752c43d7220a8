package domain

import "errors"

var (
	// ErrInvalidInput marks malformed addresses, chains or parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDataSource marks transport, HTTP, decode and explorer API failures.
	ErrDataSource = errors.New("data source failure")

	// ErrUnknownChain marks a chain identifier missing from the registry.
	ErrUnknownChain = errors.New("unknown chain")
)
