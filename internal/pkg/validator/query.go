package validator

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
)

// QueryInt reads an optional base 10 integer query parameter, so "010" is ten.
func QueryInt(query url.Values, name string, fallback int) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", entity.ErrInvalidParameter, name)
	}
	return value, nil
}
