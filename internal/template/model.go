// Package template stores reusable sketches that an editor can load into a
// room.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

const MaxNameLength = 100

var (
	ErrNotFound    = errors.New("template not found")
	ErrInvalidName = errors.New("template name must be 1-100 characters")
)

// Template is a named, saved sketch.
type Template struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	UserID    int            `gorm:"index;not null" json:"userId"`
	Sketch    datatypes.JSON `gorm:"not null" json:"sketch"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Template) TableName() string {
	return "sketch_templates"
}

// BeforeCreate assigns an id when the caller did not.
func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Snapshot decodes the stored sketch.
func (t Template) Snapshot() (sketch.Snapshot, error) {
	var snap sketch.Snapshot
	if len(t.Sketch) == 0 {
		return sketch.Empty(), nil
	}
	if err := json.Unmarshal(t.Sketch, &snap); err != nil {
		return sketch.Snapshot{}, fmt.Errorf("decode template %s: %w", t.ID, err)
	}
	return snap.Clone(), nil
}

func encodeSketch(snap sketch.Snapshot) (datatypes.JSON, error) {
	data, err := json.Marshal(snap.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode sketch: %w", err)
	}
	return datatypes.JSON(data), nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
