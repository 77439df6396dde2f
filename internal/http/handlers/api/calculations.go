package api

import (
	"github.com/calcledger/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CalculationRequest 计算记录请求体
type CalculationRequest struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// ListCalculations 列出当前用户的计算记录，新记录在前
func (h *Handler) ListCalculations(c *gin.Context) {
	subjectID, ok := getSubjectID(c)
	if !ok {
		return
	}
	calcs, err := h.CalculationService.List(subjectID)
	if err != nil {
		respondCalculationError(c, err)
		return
	}
	response.Success(c, calcs)
}

// CreateCalculation 保存计算记录
func (h *Handler) CreateCalculation(c *gin.Context) {
	subjectID, ok := getSubjectID(c)
	if !ok {
		return
	}
	var req CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Expression and result are required")
		return
	}
	calc, err := h.CalculationService.Create(subjectID, req.Expression, req.Result)
	if err != nil {
		respondCalculationError(c, err)
		return
	}
	response.Created(c, gin.H{
		"message": "Calculation saved successfully",
		"id":      calc.ID,
	})
}

// UpdateCalculation 更新当前用户的计算记录
func (h *Handler) UpdateCalculation(c *gin.Context) {
	subjectID, ok := getSubjectID(c)
	if !ok {
		return
	}
	var req CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Expression and result are required")
		return
	}
	calc, err := h.CalculationService.Update(c.Param("id"), subjectID, req.Expression, req.Result)
	if err != nil {
		respondCalculationError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message":     "Calculation updated successfully",
		"calculation": calc,
	})
}

// DeleteCalculation 删除当前用户的计算记录
func (h *Handler) DeleteCalculation(c *gin.Context) {
	subjectID, ok := getSubjectID(c)
	if !ok {
		return
	}
	calc, err := h.CalculationService.Delete(c.Param("id"), subjectID)
	if err != nil {
		respondCalculationError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message":     "Calculation deleted successfully",
		"calculation": calc,
	})
}
