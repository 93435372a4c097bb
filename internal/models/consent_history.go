package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Record-type tags for amendment history entries. TABLE_ID in
// FS_CONSENT_HISTORY carries one of these; anything else is rejected at
// store time.
const (
	HistoryTypeConsentData      = "ConsentData"
	HistoryTypeAttributesData   = "ConsentAttributesData"
	HistoryTypeMappingData      = "ConsentMappingData"
	HistoryTypeAuthResourceData = "ConsentAuthResourceData"
	HistoryTypeAmendedReason    = "AmendedReason"
)

// IsValidHistoryType reports whether the given record-type tag belongs to
// the fixed amendment-history tag set.
func IsValidHistoryType(historyType string) bool {
	switch historyType {
	case HistoryTypeConsentData,
		HistoryTypeAttributesData,
		HistoryTypeMappingData,
		HistoryTypeAuthResourceData,
		HistoryTypeAmendedReason:
		return true
	}
	return false
}

// ConsentHistory represents the FS_CONSENT_HISTORY table. Append-only.
type ConsentHistory struct {
	HistoryID     string `db:"HISTORY_ID" json:"historyId"`
	TableID       string `db:"TABLE_ID" json:"tableId"`
	RecordID      string `db:"RECORD_ID" json:"recordId"`
	HistoryTime   int64  `db:"HISTORY_TIME" json:"historyTime"`
	ChangedValues JSON   `db:"CHANGED_VALUES" json:"changedValues"`
	Reason        string `db:"REASON" json:"reason"`
}

// JSON type for handling JSON fields in MySQL
type JSON json.RawMessage

// Scan implements the sql.Scanner interface for JSON
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSON: %T", value)
	}

	var temp interface{}
	if err := json.Unmarshal(bytes, &temp); err != nil {
		return fmt.Errorf("invalid JSON data: %w", err)
	}

	*j = JSON(bytes)
	return nil
}

// Value implements the driver.Valuer interface for JSON
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// MarshalJSON implements json.Marshaler
func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = JSON(data)
	return nil
}
