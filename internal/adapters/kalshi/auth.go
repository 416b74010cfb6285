package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
)

// basePath is prepended to every signed request path.
const basePath = "/trade-api/v2"

// Credentials holds the API key ID and the RSA private key used to
// sign requests.
type Credentials struct {
	APIKeyID   string
	PrivateKey *rsa.PrivateKey
}

// LoadCredentialsFromEnv reads KALSHI_API_KEY_ID and
// KALSHI_PRIVATE_KEY (PEM, possibly collapsed to one line) from the
// environment.
func LoadCredentialsFromEnv() (*Credentials, error) {
	keyID := os.Getenv("KALSHI_API_KEY_ID")
	if keyID == "" {
		return nil, fmt.Errorf("kalshi.LoadCredentialsFromEnv: KALSHI_API_KEY_ID not set")
	}
	pemData := os.Getenv("KALSHI_PRIVATE_KEY")
	if pemData == "" {
		return nil, fmt.Errorf("kalshi.LoadCredentialsFromEnv: KALSHI_PRIVATE_KEY not set")
	}
	key, err := LoadPrivateKey(pemData)
	if err != nil {
		return nil, fmt.Errorf("kalshi.LoadCredentialsFromEnv: %w", err)
	}
	return &Credentials{APIKeyID: keyID, PrivateKey: key}, nil
}

// LoadPrivateKey parses an RSA private key in PEM format. Accepts
// PKCS#8 and PKCS#1, and keys collapsed to a single line (common when
// the PEM is stored in an env var).
func LoadPrivateKey(pemData string) (*rsa.PrivateKey, error) {
	pemData = normalizePEM(pemData)

	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("kalshi.LoadPrivateKey: no PEM block found")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("kalshi.LoadPrivateKey: not an RSA key")
		}
		return rsaKey, nil
	}

	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("kalshi.LoadPrivateKey: parse key: %w", err)
	}
	return rsaKey, nil
}

// normalizePEM re-wraps a one-line PEM back into 64-char lines so
// pem.Decode accepts it.
func normalizePEM(data string) string {
	data = strings.TrimSpace(data)
	if strings.Contains(data, "\n") {
		return data
	}

	const (
		beginTag = "-----BEGIN "
		endTag   = "-----END "
	)
	if !strings.HasPrefix(data, beginTag) {
		return data
	}
	begin := strings.Index(data[len(beginTag):], "-----")
	end := strings.Index(data, endTag)
	if begin < 0 || end < 0 {
		return data
	}
	begin += len(beginTag)
	header := data[:begin+5]
	footer := data[end:]
	body := strings.TrimSpace(data[begin+5 : end])
	body = strings.ReplaceAll(body, " ", "")

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for len(body) > 64 {
		b.WriteString(body[:64])
		b.WriteString("\n")
		body = body[64:]
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}

// Sign produces the request signature: RSA-PSS over SHA-256 of
// timestampMillis + METHOD + basePath + path, with the salt length
// equal to the digest length. path must not include the query string.
func (c *Credentials) Sign(timestampMillis, method, path string) (string, error) {
	msg := timestampMillis + method + basePath + path
	digest := sha256.Sum256([]byte(msg))

	sig, err := rsa.SignPSS(rand.Reader, c.PrivateKey, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return "", fmt.Errorf("kalshi.Sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}
