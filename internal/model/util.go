package model

import (
	"bytes"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
)

// MigrateAble is array of model instance, use for migrating database
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&User{},
		&Company{},
		&UserProfile{},
		&Session{},
		&JobPosting{},
		&ResumeData{},
		&JobApplication{},
		&Interview{},
	)
}

// isJSONList accepts an absent value or a JSON array
func isJSONList(value interface{}) error {
	raw, _ := value.(datatypes.JSON)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] != '[' || !json.Valid(trimmed) {
		return errors.New("must be a list")
	}
	return nil
}
