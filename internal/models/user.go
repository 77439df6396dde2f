package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表。主键是身份提供方下发的 subject id，本服务不自行生成。
type User struct {
	ID               string         `gorm:"primarykey" json:"id"`                             // 身份提供方 subject id
	Email            string         `gorm:"not null" json:"email"`                            // 邮箱
	TwoFactorEnabled bool           `gorm:"not null;default:false" json:"two_factor_enabled"` // 是否启用二次验证
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                       // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
