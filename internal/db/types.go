package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated recruiter account
type User struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StringList handles nullable JSONB string arrays. A nil list maps to SQL
// NULL, which keeps "never discussed" distinguishable from "explicitly none".
type StringList []string

// Scan implements the Scanner interface for StringList
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch source := src.(type) {
	case []byte:
		return json.Unmarshal(source, l)
	case string:
		return json.Unmarshal([]byte(source), l)
	default:
		return errors.New("unsupported source type for StringList")
	}
}

// Value implements the Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}
