package identity

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"strings"
)

// ErrCredentialInvalid 服务账号私钥无法解析
var ErrCredentialInvalid = errors.New("identity: service account private key invalid")

// ParseServiceAccountKey 解析服务账号私钥。配置来源不一（环境变量、JSON 文件、
// 控制台粘贴），常见形态都要兜住：标准 PEM、带引号的 PEM、\n 转义成字面量的
// PEM、去掉头尾的裸 base64 DER。
func ParseServiceAccountKey(raw string) (*rsa.PrivateKey, error) {
	normalized := strings.TrimSpace(raw)
	normalized = strings.Trim(normalized, `"'`)
	normalized = strings.ReplaceAll(normalized, "\\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	if normalized == "" {
		return nil, ErrCredentialInvalid
	}

	block, _ := pem.Decode([]byte(normalized))
	if block != nil {
		if strings.Contains(block.Type, "PRIVATE KEY") {
			if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
				if rsaKey, ok := key.(*rsa.PrivateKey); ok {
					return rsaKey, nil
				}
			}
		}
		if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
			return key, nil
		}
	}

	decoded, err := decodeKeyBody(normalized)
	if err != nil {
		return nil, ErrCredentialInvalid
	}
	if key, err := x509.ParsePKCS8PrivateKey(decoded); err == nil {
		if rsaKey, ok := key.(*rsa.PrivateKey); ok {
			return rsaKey, nil
		}
	}
	if key, err := x509.ParsePKCS1PrivateKey(decoded); err == nil {
		return key, nil
	}
	return nil, ErrCredentialInvalid
}

func decodeKeyBody(raw string) ([]byte, error) {
	lines := strings.Split(raw, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "-----BEGIN ") || strings.HasPrefix(trimmed, "-----END ") {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return nil, ErrCredentialInvalid
	}
	body := strings.Join(parts, "")
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrCredentialInvalid
	}
	return decoded, nil
}
