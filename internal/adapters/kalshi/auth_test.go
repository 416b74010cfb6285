package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestSign_VerifiesWithPSS(t *testing.T) {
	key := testKey(t)
	creds := &Credentials{APIKeyID: "key-id", PrivateKey: key}

	sig, err := creds.Sign("1756500000000", "GET", "/markets")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("1756500000000GET/trade-api/v2/markets"))
	err = rsa.VerifyPSS(&key.PublicKey, crypto.SHA256, digest[:], raw, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       crypto.SHA256,
	})
	assert.NoError(t, err)
}

func TestSign_DifferentPathsDiffer(t *testing.T) {
	creds := &Credentials{PrivateKey: testKey(t)}
	a, err := creds.Sign("1756500000000", "GET", "/markets")
	require.NoError(t, err)
	b, err := creds.Sign("1756500000000", "GET", "/portfolio/balance")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLoadPrivateKey_PKCS8(t *testing.T) {
	key := testKey(t)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pemData := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))

	parsed, err := LoadPrivateKey(pemData)
	require.NoError(t, err)
	assert.Equal(t, key.N, parsed.N)
}

func TestLoadPrivateKey_PKCS1(t *testing.T) {
	key := testKey(t)
	pemData := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))

	parsed, err := LoadPrivateKey(pemData)
	require.NoError(t, err)
	assert.Equal(t, key.N, parsed.N)
}

func TestLoadPrivateKey_OneLinePEM(t *testing.T) {
	// PEM aplastado a una línea, como queda al pegarlo en un .env
	key := testKey(t)
	pemData := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
	oneLine := strings.ReplaceAll(pemData, "\n", " ")

	parsed, err := LoadPrivateKey(oneLine)
	require.NoError(t, err)
	assert.Equal(t, key.N, parsed.N)
}

func TestLoadPrivateKey_Garbage(t *testing.T) {
	_, err := LoadPrivateKey("not a key")
	assert.Error(t, err)
}
