package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrFormSchemaNotFound = errors.New("form schema not found")

type FormSchema struct {
	ID uint `gorm:"primaryKey"`

	EventID uint   `gorm:"uniqueIndex:idx_form_schemas_event;not null"`
	Fields  []byte `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type FormResponse struct {
	ID string `gorm:"primaryKey"` // uuid

	FormID   uint   `gorm:"not null;index"`
	UserID   uint   `gorm:"not null"`
	Response []byte `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type FormDAO struct {
	db *gorm.DB
}

func NewFormDAO(db *gorm.DB) *FormDAO {
	return &FormDAO{
		db: db,
	}
}

// UpsertSchema replaces an event's form schema wholesale.
func (d *FormDAO) UpsertSchema(ctx context.Context, schema FormSchema) (FormSchema, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"fields", "updated_at"}),
	}).Create(&schema)
	if result.Error != nil {
		return FormSchema{}, result.Error
	}

	return schema, nil
}

func (d *FormDAO) FindSchemaByEventID(ctx context.Context, eventID uint) (FormSchema, error) {
	var schema FormSchema

	result := d.db.WithContext(ctx).First(&schema, "event_id = ?", eventID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return FormSchema{}, ErrFormSchemaNotFound
		}

		return FormSchema{}, result.Error
	}

	return schema, nil
}

func (d *FormDAO) FindResponseByID(ctx context.Context, id string) (FormResponse, error) {
	var resp FormResponse

	result := d.db.WithContext(ctx).First(&resp, "id = ?", id)
	if result.Error != nil {
		return FormResponse{}, result.Error
	}

	return resp, nil
}
