// Package gravatar builds avatar URLs for the addresses left in feedback submissions.
package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/aimarketer/aimarketer/internal/config"
)

const baseURL = "https://www.gravatar.com/avatar/"

// Resolver maps email addresses to avatar URLs.
type Resolver struct {
	cfg *config.GravatarConfig
}

// New creates a Resolver. A nil or disabled config yields a Resolver that returns no URLs.
func New(cfg *config.GravatarConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// URL returns the avatar URL for email, or "" when avatars are disabled or email is blank.
func (r *Resolver) URL(email string) string {
	if r == nil || r.cfg == nil || !r.cfg.Enabled {
		return ""
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(email))
	u := baseURL + hex.EncodeToString(hash[:])

	params := url.Values{}
	if r.cfg.DefaultImage != "" {
		params.Set("d", r.cfg.DefaultImage)
	}
	if r.cfg.Rating != "" {
		params.Set("r", r.cfg.Rating)
	}
	if r.cfg.Size > 0 {
		params.Set("s", strconv.Itoa(r.cfg.Size))
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
