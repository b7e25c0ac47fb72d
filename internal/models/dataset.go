package models

import (
	"time"

	"github.com/google/uuid"
)

// Dataset is either a built-in reference dataset (source "builtin") or a
// corpus uploaded by a user (source "upload", backed by a storage object).
type Dataset struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	Kind        string     `json:"kind" db:"kind"`
	Source      string     `json:"source" db:"source"`
	FilePath    string     `json:"file_path,omitempty" db:"file_path"`
	RecordCount int        `json:"record_count,omitempty" db:"record_count"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

const (
	DatasetKindImage      = "image"
	DatasetKindTabular    = "tabular"
	DatasetKindTimeseries = "timeseries"
	DatasetKindText       = "text"

	DatasetSourceBuiltin = "builtin"
	DatasetSourceUpload  = "upload"
)
