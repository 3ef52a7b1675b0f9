package versions

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SocialContent struct {
	Id uint `gorm:"primaryKey;autoIncrement"`

	UserId   string `gorm:"index;not null"`
	Platform string `gorm:"size:20;not null"`
	Content  string `gorm:"type:text"`
	Status   string `gorm:"size:20;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type SocialContentHistory struct {
	Id uint `gorm:"primaryKey;autoIncrement"`

	ContentId uint           `gorm:"index;not null"`
	Content   *SocialContent `gorm:"foreignKey:ContentId"`

	PreviousContent string `gorm:"type:text"`
	UpdatedContent  string `gorm:"type:text"`
	Prompt          string `gorm:"type:text"`
	Model           string `gorm:"size:20"`

	CreatedBy string
	CreatedAt time.Time
}

type ScheduledPost struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	ContentId uint           `gorm:"index;not null"`
	Content   *SocialContent `gorm:"foreignKey:ContentId"`

	Platform string `gorm:"size:20;not null"`
	Status   string `gorm:"size:20;not null"`

	PublishAt      time.Time `gorm:"index"`
	CreationTime   time.Time
	CompletionTime sql.NullTime
}

type ChatSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    string    `gorm:"index;not null"`
	Title     string
	CreatedAt time.Time
}

type ChatHistory struct {
	ID          uint   `gorm:"primary_key"`
	SessionID   string `gorm:"index"`
	MessageType string
	Content     string
	Timestamp   time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
}

func Migration0(db *gorm.DB) error {
	err := db.AutoMigrate(
		&SocialContent{}, &SocialContentHistory{}, &ScheduledPost{}, &ChatSession{}, &ChatHistory{},
	)
	if err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
