package repository

import (
	"errors"

	"github.com/calcledger/internal/models"

	"gorm.io/gorm"
)

// CalculationRepository 计算记录数据访问接口。所有读写都以 owner 为条件，
// 记录不存在与不属于当前用户在这一层不可区分。
type CalculationRepository interface {
	ListByUser(userID string) ([]models.Calculation, error)
	Create(calc *models.Calculation) error
	UpdateOwned(id, userID, expression, result string) (*models.Calculation, error)
	DeleteOwned(id, userID string) (*models.Calculation, error)
}

// GormCalculationRepository GORM 实现
type GormCalculationRepository struct {
	db *gorm.DB
}

// NewCalculationRepository 创建计算记录仓库
func NewCalculationRepository(db *gorm.DB) *GormCalculationRepository {
	return &GormCalculationRepository{db: db}
}

// ListByUser 按用户列出计算记录，新记录在前
func (r *GormCalculationRepository) ListByUser(userID string) ([]models.Calculation, error) {
	calcs := make([]models.Calculation, 0)
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&calcs).Error; err != nil {
		return nil, err
	}
	return calcs, nil
}

// Create 创建计算记录
func (r *GormCalculationRepository) Create(calc *models.Calculation) error {
	return r.db.Create(calc).Error
}

// UpdateOwned 更新属于该用户的记录，返回更新后的记录；未命中返回 nil
func (r *GormCalculationRepository) UpdateOwned(id, userID, expression, result string) (*models.Calculation, error) {
	var calc models.Calculation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Calculation{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]interface{}{
				"expression": expression,
				"result":     result,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).First(&calc).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &calc, nil
}

// DeleteOwned 删除属于该用户的记录，返回被删除的记录；未命中返回 nil
func (r *GormCalculationRepository) DeleteOwned(id, userID string) (*models.Calculation, error) {
	var calc models.Calculation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).
			First(&calc).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&models.Calculation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &calc, nil
}
