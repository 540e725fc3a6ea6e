package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissing is wrapped by every MissingError.
var ErrMissing = errors.New("missing required configuration")

// MissingError names the environment variables a collaborator needed but did not get.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissing, strings.Join(e.Vars, ", "))
}

func (e *MissingError) Unwrap() error {
	return ErrMissing
}

// missing returns a MissingError for the keys whose values are empty, or nil.
func missing(pairs ...string) error {
	var vars []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			vars = append(vars, pairs[i])
		}
	}
	if len(vars) == 0 {
		return nil
	}
	return &MissingError{Vars: vars}
}
