package model

import "time"

const TableNameNote = "notes"

// Note mapped from table <notes>
type Note struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"column:owner_id;not null;index:idx_notes_owner_pinned,priority:1;size:36" json:"ownerId"`
	Title     string    `gorm:"column:title;not null;default:''" json:"title"`
	Content   string    `gorm:"column:content;type:text;not null;default:''" json:"content"`
	Tags      []string  `gorm:"column:tags;serializer:json;type:text" json:"tags"`
	Pinned    bool      `gorm:"column:pinned;not null;default:false;index:idx_notes_owner_pinned,priority:2" json:"pinned"`
	Color     string    `gorm:"column:color;not null;default:'#4f46e5';size:32" json:"color"`
	Image     string    `gorm:"column:image;type:text;not null;default:''" json:"image"`
	IsPublic  bool      `gorm:"column:is_public;not null;default:false;index:idx_notes_public" json:"isPublic"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false;index:idx_notes_updated" json:"updatedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
