package repository

import (
	"errors"

	"github.com/calcledger/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(id string) (*models.User, error)
	Create(user *models.User) error
	SetTwoFactor(id string, enabled bool) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByID 根据 subject id 获取用户，不存在返回 nil
func (r *GormUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// SetTwoFactor 更新二次验证开关
func (r *GormUserRepository) SetTwoFactor(id string, enabled bool) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("two_factor_enabled", enabled).Error
}
