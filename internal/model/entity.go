package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnknownField is returned by SetField for names the entity does not expose.
var ErrUnknownField = errors.New("unknown field")

// RoundMoney rounds a monetary value to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func unknownField(entity, name string) error {
	return fmt.Errorf("%s has no field %q: %w", entity, name, ErrUnknownField)
}

func parseID(name, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%s must be a record id", name)
	}
	return id, nil
}

func parseOptionalID(name, value string) (*int64, error) {
	id, err := parseID(name, value)
	if err != nil || id == 0 {
		return nil, err
	}
	return &id, nil
}

func parseMoney(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(value), ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return RoundMoney(v), nil
}
