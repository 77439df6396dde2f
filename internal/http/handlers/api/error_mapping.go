package api

import (
	"errors"
	"net/http"

	"github.com/calcledger/internal/http/response"
	"github.com/calcledger/internal/logger"
	"github.com/calcledger/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	status int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackStatus int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.status, rule.msg)
			return
		}
	}
	logger.Errorw("handler_error",
		"path", c.FullPath(),
		"error", err,
	)
	response.Error(c, fallbackStatus, fallbackMsg)
}

var accountErrorRules = []mappedHandlerError{
	{target: service.ErrAccountExists, status: http.StatusBadRequest, msg: "User already exists."},
	{target: service.ErrAccountNotFound, status: http.StatusNotFound, msg: "User not found"},
	{target: service.ErrValidation, status: http.StatusBadRequest, msg: "Invalid request"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrAccountNotFound, status: http.StatusNotFound, msg: "User not found"},
	{target: service.ErrNotificationFailed, status: http.StatusInternalServerError, msg: "Failed to send verification code"},
	{target: service.ErrEmailServiceDisabled, status: http.StatusInternalServerError, msg: "Failed to send verification code"},
	{target: service.ErrEmailServiceNotConfigured, status: http.StatusInternalServerError, msg: "Failed to send verification code"},
	{target: service.ErrInvalidEmail, status: http.StatusInternalServerError, msg: "Failed to send verification code"},
}

var verifyCodeErrorRules = []mappedHandlerError{
	{target: service.ErrAccountNotFound, status: http.StatusNotFound, msg: "User not found"},
	{target: service.ErrCodeInvalidOrExpired, status: http.StatusBadRequest, msg: "Invalid or expired 2FA code"},
	{target: service.ErrValidation, status: http.StatusBadRequest, msg: "Verification code is required"},
}

var calculationErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, status: http.StatusBadRequest, msg: "Expression and result are required"},
	{target: service.ErrCalculationNotFound, status: http.StatusNotFound, msg: "Calculation not found"},
}

func respondAccountError(c *gin.Context, err error) {
	respondWithMappedError(c, err, accountErrorRules, http.StatusInternalServerError, "Internal server error")
}

func respondLoginError(c *gin.Context, err error) {
	respondWithMappedError(c, err, loginErrorRules, http.StatusInternalServerError, "Internal server error")
}

func respondVerifyCodeError(c *gin.Context, err error) {
	respondWithMappedError(c, err, verifyCodeErrorRules, http.StatusInternalServerError, "Internal server error")
}

func respondCalculationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, calculationErrorRules, http.StatusInternalServerError, "Internal server error")
}
