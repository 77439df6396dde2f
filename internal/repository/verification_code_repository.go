package repository

import (
	"time"

	"github.com/calcledger/internal/models"

	"gorm.io/gorm"
)

// VerificationCodeRepository 二次验证码数据访问接口
type VerificationCodeRepository interface {
	Replace(code *models.VerificationCode) error
	Consume(userID, code string, now time.Time) (bool, error)
	DeleteByUser(userID string) error
}

// GormVerificationCodeRepository GORM 实现
type GormVerificationCodeRepository struct {
	db *gorm.DB
}

// NewVerificationCodeRepository 创建验证码仓库
func NewVerificationCodeRepository(db *gorm.DB) *GormVerificationCodeRepository {
	return &GormVerificationCodeRepository{db: db}
}

// Replace 写入新验证码并删除该用户之前的所有验证码，两步在同一事务内完成，
// 保证任一用户同一时刻至多一条存活记录。
func (r *GormVerificationCodeRepository) Replace(code *models.VerificationCode) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", code.UserID).
			Delete(&models.VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

// Consume 校验并消费验证码。匹配且未过期时删除记录并返回 true；
// 不匹配或已过期返回 false。单条条件删除，并发重复提交只有一次成功。
func (r *GormVerificationCodeRepository) Consume(userID, code string, now time.Time) (bool, error) {
	result := r.db.Where("user_id = ? AND code = ? AND expires_at > ?", userID, code, now).
		Delete(&models.VerificationCode{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByUser 删除该用户的全部验证码
func (r *GormVerificationCodeRepository) DeleteByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).
		Delete(&models.VerificationCode{}).Error
}
