package service

import (
	"strings"

	"github.com/calcledger/internal/models"
	"github.com/calcledger/internal/repository"

	"github.com/google/uuid"
)

// CalculationService 计算记录服务。所有操作都以当前用户为条件，
// 记录不存在与属于他人对外表现一致。
type CalculationService struct {
	calcs repository.CalculationRepository
}

// NewCalculationService 创建计算记录服务
func NewCalculationService(calcs repository.CalculationRepository) *CalculationService {
	return &CalculationService{calcs: calcs}
}

// List 列出当前用户的计算记录，新记录在前
func (s *CalculationService) List(userID string) ([]models.Calculation, error) {
	return s.calcs.ListByUser(userID)
}

// Create 保存计算记录
func (s *CalculationService) Create(userID, expression, result string) (*models.Calculation, error) {
	expression = strings.TrimSpace(expression)
	result = strings.TrimSpace(result)
	if expression == "" || result == "" {
		return nil, ErrValidation
	}
	calc := &models.Calculation{
		ID:         uuid.NewString(),
		UserID:     userID,
		Expression: expression,
		Result:     result,
	}
	if err := s.calcs.Create(calc); err != nil {
		return nil, err
	}
	return calc, nil
}

// Update 更新当前用户的计算记录，返回更新后的记录
func (s *CalculationService) Update(id, userID, expression, result string) (*models.Calculation, error) {
	expression = strings.TrimSpace(expression)
	result = strings.TrimSpace(result)
	if strings.TrimSpace(id) == "" || expression == "" || result == "" {
		return nil, ErrValidation
	}
	updated, err := s.calcs.UpdateOwned(id, userID, expression, result)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCalculationNotFound
	}
	return updated, nil
}

// Delete 删除当前用户的计算记录，返回被删除的记录
func (s *CalculationService) Delete(id, userID string) (*models.Calculation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrValidation
	}
	deleted, err := s.calcs.DeleteOwned(id, userID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, ErrCalculationNotFound
	}
	return deleted, nil
}
