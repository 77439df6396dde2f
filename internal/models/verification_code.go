package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationCode 二次验证码记录。同一用户同一时刻至多一条存活记录，
// 新验证码签发时旧记录会被删除。
type VerificationCode struct {
	ID        uint           `gorm:"primarykey" json:"id"`          // 主键
	UserID    string         `gorm:"index;not null" json:"user_id"` // 关联用户 subject id
	Code      string         `gorm:"not null" json:"-"`             // 验证码（不返回给前端）
	ExpiresAt time.Time      `gorm:"index" json:"expires_at"`       // 过期时间
	CreatedAt time.Time      `json:"created_at"`                    // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                // 软删除时间
}

// TableName 指定表名
func (VerificationCode) TableName() string {
	return "verification_codes"
}
