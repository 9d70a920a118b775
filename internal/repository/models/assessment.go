package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice is stored as a JSON array in a VARCHAR2 column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		// nil 슬라이스는 빈 JSON 배열 "[]"로 저장
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // Oracle 바인딩을 위해 []byte 대신 string
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{} // DB NULL은 빈 슬라이스로
		return nil
	}

	var bytesToParse []byte

	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}

	return json.Unmarshal(bytesToParse, s)
}

// Assessment is one row of the ASSESSMENTS table. The summary columns
// duplicate fields of PAYLOAD so history can be filtered in SQL.
type Assessment struct {
	ID           string         `db:"ID"`            // ULID
	PetID        string         `db:"PET_ID"`        // owner of the history
	BankVersion  sql.NullString `db:"BANK_VERSION"`  // question bank version
	OverallScore int            `db:"OVERALL_SCORE"` // 0..100
	Level        string         `db:"SEVERITY"`      // normal|mid|warn|urgent
	RedFlags     StringSlice    `db:"RED_FLAGS"`     // fired question ids
	Payload      string         `db:"PAYLOAD"`       // full result as JSON (CLOB)
	AssessedAt   time.Time      `db:"ASSESSED_AT"`   // result timestamp
	CreatedAt    time.Time      `db:"CREATED_AT"`
}

func (Assessment) TableName() string {
	return "assessments"
}
