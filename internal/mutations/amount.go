package mutations

import (
	"strconv"
	"strings"

	"business-console/internal/common/errors"
)

// Direction selects add-balance or deduct-balance.
type Direction string

const (
	Add    Direction = "add"
	Deduct Direction = "deduct"
)

func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Add:
		return Add, true
	case Deduct:
		return Deduct, true
	}
	return "", false
}

// ParseAmount accepts only a strictly positive whole number written in
// plain digits. Signs, decimals and exponents are rejected.
func ParseAmount(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.NewInvalidAmountError(raw)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.NewInvalidAmountError(raw)
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.NewInvalidAmountError(raw)
	}
	return n, nil
}
