package api

import (
	"github.com/calcledger/internal/constants"
	"github.com/calcledger/internal/http/response"
	"github.com/calcledger/internal/models"

	"github.com/gin-gonic/gin"
)

// UserView 账户响应结构
type UserView struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

func newUserView(user *models.User) UserView {
	return UserView{
		ID:               user.ID,
		Email:            user.Email,
		TwoFactorEnabled: user.TwoFactorEnabled,
	}
}

// Signup 按令牌身份建立本地账户
func (h *Handler) Signup(c *gin.Context) {
	subjectID, ok := getSubjectID(c)
	if !ok {
		return
	}
	user, err := h.TwoFactorService.Signup(subjectID, getSubjectEmail(c))
	if err != nil {
		respondAccountError(c, err)
		return
	}
	response.Created(c, gin.H{
		"message": "User signed up successfully",
		"user":    newUserView(user),
	})
}

// Login 登录。启用二次验证的账户先收到邮件验证码，
// 响应回显令牌供第二步携带。
func (h *Handler) Login(c *gin.Context) {
	subjectID, ok := getSubjectID(c)
	if !ok {
		return
	}
	result, err := h.TwoFactorService.BeginLogin(subjectID)
	if err != nil {
		respondLoginError(c, err)
		return
	}
	if result.TwoFactorRequired {
		response.Success(c, gin.H{
			"message":             "2FA code sent to your email",
			"two_factor_required": true,
			"token":               c.GetString(constants.ContextKeyToken),
		})
		return
	}
	response.Success(c, gin.H{
		"message": "User authenticated",
		"user":    newUserView(result.User),
	})
}

// VerifyCodeRequest 验证码提交请求
type VerifyCodeRequest struct {
	Code string `json:"code"`
}

// VerifyTwoFactorCode 校验并消费邮件验证码
func (h *Handler) VerifyTwoFactorCode(c *gin.Context) {
	subjectID, ok := getSubjectID(c)
	if !ok {
		return
	}
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Verification code is required")
		return
	}
	user, err := h.TwoFactorService.SubmitCode(subjectID, req.Code)
	if err != nil {
		respondVerifyCodeError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message": "User authenticated",
		"user":    newUserView(user),
	})
}

// EnableTwoFactor 开启二次验证
func (h *Handler) EnableTwoFactor(c *gin.Context) {
	subjectID, ok := getSubjectID(c)
	if !ok {
		return
	}
	user, err := h.TwoFactorService.SetTwoFactor(subjectID, true)
	if err != nil {
		respondAccountError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message": "2FA enabled successfully",
		"user":    newUserView(user),
	})
}

// DisableTwoFactor 关闭二次验证并清掉未消费的验证码
func (h *Handler) DisableTwoFactor(c *gin.Context) {
	subjectID, ok := getSubjectID(c)
	if !ok {
		return
	}
	user, err := h.TwoFactorService.SetTwoFactor(subjectID, false)
	if err != nil {
		respondAccountError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message": "2FA disabled successfully",
		"user":    newUserView(user),
	})
}
