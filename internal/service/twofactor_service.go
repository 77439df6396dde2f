package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/calcledger/internal/config"
	"github.com/calcledger/internal/constants"
	"github.com/calcledger/internal/logger"
	"github.com/calcledger/internal/models"
	"github.com/calcledger/internal/repository"

	"gorm.io/gorm"
)

// TwoFactorService 账户与邮件二次验证服务
type TwoFactorService struct {
	users      repository.UserRepository
	codes      repository.VerificationCodeRepository
	notifier   Notifier
	codeLength int
	expiry     time.Duration
}

// NewTwoFactorService 创建二次验证服务。配置缺失或非法时回退到默认的
// 6 位验证码、10 分钟有效期；验证码长度不允许低于默认值。
func NewTwoFactorService(
	users repository.UserRepository,
	codes repository.VerificationCodeRepository,
	notifier Notifier,
	cfg *config.TwoFactorConfig,
) *TwoFactorService {
	codeLength := constants.TwoFactorCodeLength
	expireMinutes := constants.TwoFactorExpireMinutes
	if cfg != nil {
		if cfg.CodeLength > constants.TwoFactorCodeLength {
			codeLength = cfg.CodeLength
		}
		if cfg.ExpireMinutes > 0 {
			expireMinutes = cfg.ExpireMinutes
		}
	}
	return &TwoFactorService{
		users:      users,
		codes:      codes,
		notifier:   notifier,
		codeLength: codeLength,
		expiry:     time.Duration(expireMinutes) * time.Minute,
	}
}

// LoginResult 登录结果。TwoFactorRequired 为 true 时验证码已发出，
// 调用方需凭验证码完成第二步。
type LoginResult struct {
	User              *models.User
	TwoFactorRequired bool
}

// Signup 按身份提供方下发的 subject 建立本地账户
func (s *TwoFactorService) Signup(subjectID, email string) (*models.User, error) {
	existing, err := s.users.GetByID(subjectID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAccountExists
	}
	user := &models.User{
		ID:    subjectID,
		Email: email,
	}
	if err := s.users.Create(user); err != nil {
		// 并发注册时两个请求都可能通过上面的存在性检查，
		// 落败方的主键冲突同样视为账户已存在
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	return user, nil
}

// BeginLogin 开始登录。启用二次验证的账户先落库验证码再发送邮件，
// 发送失败时删除刚写入的验证码并返回 ErrNotificationFailed，
// 避免留下一条用户收不到的存活验证码。
func (s *TwoFactorService) BeginLogin(subjectID string) (*LoginResult, error) {
	user, err := s.users.GetByID(subjectID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	if !user.TwoFactorEnabled {
		return &LoginResult{User: user}, nil
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}
	record := &models.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(s.expiry),
	}
	if err := s.codes.Replace(record); err != nil {
		return nil, err
	}
	if err := s.notifier.SendTwoFactorCode(user.Email, code); err != nil {
		logger.Warnw("two_factor_code_send_failed",
			"user_id", user.ID,
			"error", err,
		)
		if cleanupErr := s.codes.DeleteByUser(user.ID); cleanupErr != nil {
			logger.Warnw("two_factor_code_cleanup_failed",
				"user_id", user.ID,
				"error", cleanupErr,
			)
		}
		return nil, ErrNotificationFailed
	}
	return &LoginResult{User: user, TwoFactorRequired: true}, nil
}

// SubmitCode 校验并消费验证码。验证码错误、过期或已被消费都返回
// ErrCodeInvalidOrExpired。
func (s *TwoFactorService) SubmitCode(subjectID, code string) (*models.User, error) {
	user, err := s.users.GetByID(subjectID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrValidation
	}
	ok, err := s.codes.Consume(user.ID, trimmed, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCodeInvalidOrExpired
	}
	return user, nil
}

// SetTwoFactor 更新二次验证开关。只翻转标志位，不签发也不清除验证码，
// 已签发的验证码按自身有效期存续。
func (s *TwoFactorService) SetTwoFactor(subjectID string, enabled bool) (*models.User, error) {
	user, err := s.users.GetByID(subjectID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	if err := s.users.SetTwoFactor(user.ID, enabled); err != nil {
		return nil, err
	}
	user.TwoFactorEnabled = enabled
	return user, nil
}

// GetAccount 获取账户信息，账户不存在时返回 nil
func (s *TwoFactorService) GetAccount(subjectID string) (*models.User, error) {
	return s.users.GetByID(subjectID)
}

func (s *TwoFactorService) generateCode() (string, error) {
	low := int64(1)
	for i := 1; i < s.codeLength; i++ {
		low *= 10
	}
	span := low*10 - low
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", s.codeLength, n.Int64()+low), nil
}
