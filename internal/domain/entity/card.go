package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Card is a published digital business card. Style holds the free-form
// code-style JSON exactly as the editor persisted it; the style resolver is
// the only place that interprets it.
type Card struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   string    `gorm:"index;not null" json:"ownerId"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Links     pq.StringArray  `gorm:"type:text[]" json:"links"`
	Style     json.RawMessage `gorm:"type:jsonb" json:"style,omitempty"`
	Published bool            `gorm:"index" json:"published"`

	// ShareURL is the public payload the code encodes. Set on publish.
	ShareURL string `json:"shareUrl"`

	// ArtifactURL points at the latest generated code image. Superseded
	// artifacts stay in storage and are not garbage collected here.
	ArtifactURL string `json:"artifactUrl"`
	// ArtifactVersion tags the format the artifact was generated with.
	// Zero means the row predates the version column.
	ArtifactVersion int `json:"artifactVersion"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
