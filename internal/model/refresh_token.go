package model

import "time"

const TableNameRefreshToken = "refresh_tokens"

// RefreshToken mapped from table <refresh_tokens>
type RefreshToken struct {
	Token     string     `gorm:"column:token;primaryKey;size:64" json:"token"`
	UserID    string     `gorm:"column:user_id;not null;index:idx_refresh_tokens_user;size:36" json:"userId"`
	Revoked   bool       `gorm:"column:revoked;not null;default:false" json:"revoked"`
	RevokedAt *time.Time `gorm:"column:revoked_at;index:idx_refresh_tokens_revoked_at" json:"revokedAt"`
	ExpiresAt time.Time  `gorm:"column:expires_at;index:idx_refresh_tokens_expires_at" json:"expiresAt"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
}

// TableName RefreshToken's table name
func (*RefreshToken) TableName() string {
	return TableNameRefreshToken
}
