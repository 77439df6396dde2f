package models

import (
	"time"

	"gorm.io/gorm"
)

// Calculation 计算记录表。owner 创建后不可变更，所有读写都以 owner 为条件。
type Calculation struct {
	ID         string         `gorm:"primarykey" json:"id"`          // 创建时分配的不透明 id
	UserID     string         `gorm:"index;not null" json:"user_id"` // 所属用户 subject id
	Expression string         `gorm:"not null" json:"expression"`    // 表达式
	Result     string         `gorm:"not null" json:"result"`        // 计算结果
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`       // 创建时间（默认排序键，新在前）
	UpdatedAt  time.Time      `json:"updated_at"`                    // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                // 软删除时间
}

// TableName 指定表名
func (Calculation) TableName() string {
	return "calculations"
}
