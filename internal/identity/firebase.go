package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/calcledger/internal/cache"
	"github.com/calcledger/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

const issuerPrefix = "https://securetoken.google.com/"
const certCacheKey = "identity:securetoken_certs"
const defaultCertTTL = time.Hour

// KeySource 提供按 kid 索引的令牌验签公钥
type KeySource interface {
	Keys(ctx context.Context) (map[string]*rsa.PublicKey, error)
}

// FirebaseVerifier 校验身份提供方签发的 RS256 ID 令牌
type FirebaseVerifier struct {
	projectID string
	source    KeySource
	parser    *jwt.Parser
}

// NewFirebaseVerifier 创建令牌校验器
func NewFirebaseVerifier(projectID string, source KeySource) *FirebaseVerifier {
	return &FirebaseVerifier{
		projectID: projectID,
		source:    source,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

type idTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify 校验令牌并返回身份。过期返回 ErrTokenExpired，其余一律 ErrTokenInvalid，
// 不向调用方泄露具体失败原因。
func (v *FirebaseVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	claims := &idTokenClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, ErrTokenInvalid
		}
		keys, err := v.source.Keys(ctx)
		if err != nil {
			return nil, err
		}
		key, ok := keys[kid]
		if !ok {
			return nil, ErrTokenInvalid
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Issuer != issuerPrefix+v.projectID {
		return nil, ErrTokenInvalid
	}
	if len(claims.Audience) == 0 || claims.Audience[0] != v.projectID {
		return nil, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenInvalid
	}
	return &Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
	}, nil
}

// GoogleCertSource 从 Google securetoken 元数据端点拉取验签证书。
// 结果按 Cache-Control max-age 在 Redis 与进程内各缓存一份。
type GoogleCertSource struct {
	certURL    string
	httpClient *http.Client
	defaultTTL time.Duration

	mu       sync.RWMutex
	keys     map[string]*rsa.PublicKey
	expireAt time.Time
}

// NewGoogleCertSource 创建证书源。certURL 为空时使用默认端点，
// cacheSeconds 为无 Cache-Control 响应时的兜底缓存时长。
func NewGoogleCertSource(certURL string, cacheSeconds int) *GoogleCertSource {
	if strings.TrimSpace(certURL) == "" {
		certURL = constants.DefaultFirebaseCertURL
	}
	ttl := defaultCertTTL
	if cacheSeconds > 0 {
		ttl = time.Duration(cacheSeconds) * time.Second
	}
	return &GoogleCertSource{
		certURL:    certURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		defaultTTL: ttl,
	}
}

// Keys 返回当前有效的验签公钥集合
func (s *GoogleCertSource) Keys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	s.mu.RLock()
	if s.keys != nil && time.Now().Before(s.expireAt) {
		keys := s.keys
		s.mu.RUnlock()
		return keys, nil
	}
	s.mu.RUnlock()

	var certs map[string]string
	hit, err := cache.GetJSON(ctx, certCacheKey, &certs)
	if err == nil && hit {
		keys, parseErr := parseCertMap(certs)
		if parseErr == nil {
			s.store(keys, s.defaultTTL)
			return keys, nil
		}
	}

	certs, ttl, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	keys, err := parseCertMap(certs)
	if err != nil {
		return nil, err
	}
	s.store(keys, ttl)
	_ = cache.SetJSON(ctx, certCacheKey, certs, ttl)
	return keys, nil
}

func (s *GoogleCertSource) store(keys map[string]*rsa.PublicKey, ttl time.Duration) {
	s.mu.Lock()
	s.keys = keys
	s.expireAt = time.Now().Add(ttl)
	s.mu.Unlock()
}

func (s *GoogleCertSource) fetch(ctx context.Context) (map[string]string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.certURL, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetch signing certs: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	var certs map[string]string
	if err := json.Unmarshal(body, &certs); err != nil {
		return nil, 0, err
	}
	ttl := parseMaxAge(resp.Header.Get("Cache-Control"), s.defaultTTL)
	return certs, ttl, nil
}

var maxAgePattern = regexp.MustCompile(`max-age=(\d+)`)

func parseMaxAge(header string, fallback time.Duration) time.Duration {
	match := maxAgePattern.FindStringSubmatch(header)
	if len(match) != 2 {
		return fallback
	}
	seconds, err := strconv.Atoi(match[1])
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func parseCertMap(certs map[string]string) (map[string]*rsa.PublicKey, error) {
	if len(certs) == 0 {
		return nil, errors.New("identity: empty signing cert set")
	}
	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, certPEM := range certs {
		block, _ := pem.Decode([]byte(certPEM))
		if block == nil {
			return nil, fmt.Errorf("identity: signing cert %s is not PEM", kid)
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("identity: parse signing cert %s: %w", kid, err)
		}
		rsaKey, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("identity: signing cert %s is not RSA", kid)
		}
		keys[kid] = rsaKey
	}
	return keys, nil
}
