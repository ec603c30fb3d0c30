package jwtx

import (
	"crypto"
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadKey = errors.New("jwtx: bad Ed25519 key")

// EdDSASigner signs client tokens with one Ed25519 key.
type EdDSASigner struct {
	kid  string
	priv ed25519.PrivateKey
}

func newEdDSASigner(kid string, pemKey []byte) (*EdDSASigner, error) {
	priv, err := parseEd25519(pemKey)
	if err != nil {
		return nil, err
	}
	if kid == "" {
		kid = thumbprint(priv.Public().(ed25519.PublicKey))
	}
	return &EdDSASigner{kid: kid, priv: priv}, nil
}

// KIDFromPEM derives a stable key ID from the public half of a PKCS8 PEM
// Ed25519 key, so a key reloaded from disk keeps its kid.
func KIDFromPEM(pemKey []byte) (string, error) {
	priv, err := parseEd25519(pemKey)
	if err != nil {
		return "", err
	}
	return thumbprint(priv.Public().(ed25519.PublicKey)), nil
}

func parseEd25519(pemKey []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(pemKey)
	switch {
	case block == nil:
		return nil, fmt.Errorf("%w: no PEM block", ErrBadKey)
	case block.Type != "PRIVATE KEY":
		return nil, fmt.Errorf("%w: want PKCS8 PRIVATE KEY, got %q", ErrBadKey, block.Type)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: PKCS8 key is %T", ErrBadKey, parsed)
	}
	return priv, nil
}

func thumbprint(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return base64.RawURLEncoding.EncodeToString(sum[:12])
}

func (s *EdDSASigner) Alg() string { return jwt.SigningMethodEdDSA.Alg() }
func (s *EdDSASigner) KID() string { return s.kid }

func (s *EdDSASigner) Public() crypto.PublicKey {
	if s.priv == nil {
		return nil
	}
	return s.priv.Public()
}

// Sign encodes claims as a compact JWS carrying the kid header.
func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.priv)
}

func (s *EdDSASigner) Validate() error {
	if len(s.priv) != ed25519.PrivateKeySize {
		return fmt.Errorf("%w: private key is %d bytes", ErrBadKey, len(s.priv))
	}
	if s.kid == "" {
		return fmt.Errorf("%w: empty kid", ErrBadKey)
	}
	return nil
}
