package model

import "time"

const TableNameUser = "users"

// User mapped from table <users>
type User struct {
	ID               string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	Email            string     `gorm:"column:email;not null;uniqueIndex:idx_users_email;size:255" json:"email"`
	PasswordHash     string     `gorm:"column:password_hash;not null" json:"-"`
	EmailConfirmedAt *time.Time `gorm:"column:email_confirmed_at" json:"emailConfirmedAt"`
	ConfirmToken     string     `gorm:"column:confirm_token;index:idx_users_confirm_token;size:64" json:"-"`
	ConfirmSentAt    *time.Time `gorm:"column:confirm_sent_at" json:"confirmSentAt"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}
