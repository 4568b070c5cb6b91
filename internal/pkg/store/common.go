package store

import (
	"errors"
	"fmt"

	"github.com/ougirez/injuries/internal/pkg/constants"
)

var (
	errNoSnapshot           = errors.New("no pipeline products loaded")
	errUnknownYear          = errors.New("year not loaded")
	errUnknownEstablishment = errors.New("establishment not found")
)

var mapping = map[error]error{
	errNoSnapshot:           constants.ErrSourceUnavailable,
	errUnknownYear:          constants.ErrNotFound,
	errUnknownEstablishment: constants.ErrNotFound,
}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return fmt.Errorf("%w: %w", v, err)
		}
	}
	return err
}
