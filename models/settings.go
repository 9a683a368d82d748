package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultLowStockThreshold applies when the user never saved settings.
const DefaultLowStockThreshold int64 = 5

// UserSettings holds per-user preferences. There is one document per user.
type UserSettings struct {
	// GlobalLowStockThreshold is a string-encoded non-negative integer.
	// "0" or "" disables low-stock alerts.
	GlobalLowStockThreshold string `json:"globalLowStockThreshold"`

	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// EffectiveGlobalThreshold resolves the global threshold: nil settings mean
// "unset" and fall back to DefaultLowStockThreshold, while an empty or zero
// value disables the global rule.
func EffectiveGlobalThreshold(settings *UserSettings) int64 {
	if settings == nil {
		return DefaultLowStockThreshold
	}

	raw := strings.TrimSpace(settings.GlobalLowStockThreshold)
	if raw == "" {
		return 0
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// DocumentData encodes settings as a remote document body.
func (s UserSettings) DocumentData() (json.RawMessage, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("error encoding user settings: %w", err)
	}
	return data, nil
}

// SettingsFromDocument decodes a remote settings document.
func SettingsFromDocument(doc Document) (UserSettings, error) {
	var settings UserSettings
	if err := json.Unmarshal(doc.Data, &settings); err != nil {
		return UserSettings{}, fmt.Errorf("error decoding user settings %s: %w", doc.ID, err)
	}
	return settings, nil
}
