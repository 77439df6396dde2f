package identity

import (
	"context"
	"errors"
)

// Identity 验证通过后的身份信息
type Identity struct {
	SubjectID string
	Email     string
}

// Verifier 身份令牌校验接口
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

var (
	// ErrTokenExpired 令牌已过期
	ErrTokenExpired = errors.New("identity: token expired")
	// ErrTokenInvalid 令牌无效（签名、签发方、受众或格式不符）
	ErrTokenInvalid = errors.New("identity: token invalid")
)
