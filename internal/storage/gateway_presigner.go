package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/filedrop/internal/config"
)

// uploadContentType is pinned for every issued upload authorization.
const uploadContentType = "application/octet-stream"

type gatewayPresigner struct {
	baseURL string
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewGatewayPresigner builds a presigner that emits capability URLs for an
// external byte-serving gateway. The capability is an HMAC-signed token
// scoping one HTTP method to one storage key for the validity window; the
// gateway verifies it with the shared secret and serves the bytes itself.
func NewGatewayPresigner(cfg config.TransferConfig, ttl time.Duration) (Presigner, error) {
	if cfg.GatewayBaseURL == "" {
		return nil, fmt.Errorf("GATEWAY_BASE_URL not provided")
	}
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("GATEWAY_TOKEN_SECRET not provided")
	}
	return &gatewayPresigner{
		baseURL: strings.TrimRight(cfg.GatewayBaseURL, "/"),
		secret:  []byte(cfg.TokenSecret),
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

func (p *gatewayPresigner) PresignUpload(ctx context.Context, key string, size int64) (string, error) {
	return p.sign(key, jwt.MapClaims{
		"sub":    key,
		"method": "PUT",
		"ctype":  uploadContentType,
		"size":   size,
	})
}

func (p *gatewayPresigner) PresignDownload(ctx context.Context, key, filename, contentType string) (string, error) {
	return p.sign(key, jwt.MapClaims{
		"sub":    key,
		"method": "GET",
		"name":   filename,
		"ctype":  contentType,
	})
}

func (p *gatewayPresigner) sign(key string, claims jwt.MapClaims) (string, error) {
	now := p.now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(p.ttl).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign capability token: %w", err)
	}
	return fmt.Sprintf("%s/objects/%s?token=%s", p.baseURL, url.PathEscape(key), url.QueryEscape(signed)), nil
}
