// Package model 定义数据模型
package model

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AutoMigrate 按名称迁移单个模型，名称为空时迁移全部
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "User":
		return db.AutoMigrate(&User{})
	case "Note":
		return db.AutoMigrate(&Note{})
	case "RefreshToken":
		return db.AutoMigrate(&RefreshToken{})
	case "":
		return db.AutoMigrate(&User{}, &Note{}, &RefreshToken{})
	}
	return errors.Errorf("unknown model %q", key)
}
