package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Quantity is a non-negative integer amount of stock.
//
// Stored records may carry it either as a JSON number or as a decimal string.
// Negative or non-numeric input decodes to 0; it always encodes as a string.
type Quantity int64

// ParseQuantity converts user or storage input into a Quantity.
func ParseQuantity(s string) Quantity {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clampQuantity(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return clampQuantity(int64(f))
	}
	return 0
}

func clampQuantity(n int64) Quantity {
	if n < 0 {
		return 0
	}
	return Quantity(n)
}

// Int64 returns the quantity as int64.
func (q Quantity) Int64() int64 {
	return int64(q)
}

// String implements fmt.Stringer.
func (q Quantity) String() string {
	return strconv.FormatInt(int64(q), 10)
}

// MarshalJSON encodes the quantity as a decimal string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

// UnmarshalJSON accepts numbers, numeric strings and null. It never fails on
// malformed values: they decode to 0.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*q = 0
			return nil
		}
		*q = ParseQuantity(s)
		return nil
	}

	*q = ParseQuantity(string(data))
	return nil
}
