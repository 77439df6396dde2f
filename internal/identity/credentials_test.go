package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
)

func generateTestKeyPEM(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key failed: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal pkcs8 failed: %v", err)
	}
	pemText := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	return pemText, key
}

func TestParseServiceAccountKeyPEM(t *testing.T) {
	pemText, key := generateTestKeyPEM(t)

	parsed, err := ParseServiceAccountKey(pemText)
	if err != nil {
		t.Fatalf("parse pem failed: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Fatalf("parsed key does not match original")
	}
}

func TestParseServiceAccountKeyEscapedNewlines(t *testing.T) {
	pemText, key := generateTestKeyPEM(t)
	escaped := strings.ReplaceAll(pemText, "\n", "\\n")

	parsed, err := ParseServiceAccountKey(escaped)
	if err != nil {
		t.Fatalf("parse escaped pem failed: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Fatalf("parsed key does not match original")
	}
}

func TestParseServiceAccountKeyQuoted(t *testing.T) {
	pemText, key := generateTestKeyPEM(t)
	quoted := `"` + strings.ReplaceAll(pemText, "\n", "\\n") + `"`

	parsed, err := ParseServiceAccountKey(quoted)
	if err != nil {
		t.Fatalf("parse quoted pem failed: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Fatalf("parsed key does not match original")
	}
}

func TestParseServiceAccountKeyBareBase64(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key failed: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal pkcs8 failed: %v", err)
	}
	bare := base64.StdEncoding.EncodeToString(der)

	parsed, err := ParseServiceAccountKey(bare)
	if err != nil {
		t.Fatalf("parse bare base64 failed: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Fatalf("parsed key does not match original")
	}
}

func TestParseServiceAccountKeyPKCS1(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key failed: %v", err)
	}
	pemText := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))

	parsed, err := ParseServiceAccountKey(pemText)
	if err != nil {
		t.Fatalf("parse pkcs1 pem failed: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Fatalf("parsed key does not match original")
	}
}

func TestParseServiceAccountKeyInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a key", "aGVsbG8="} {
		if _, err := ParseServiceAccountKey(raw); !errors.Is(err, ErrCredentialInvalid) {
			t.Fatalf("expected ErrCredentialInvalid for %q, got %v", raw, err)
		}
	}
}
