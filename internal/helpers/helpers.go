package helpers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AvatarFolder = "avatars"
	EventsFolder = "events"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// ValidateToken verifies a Supabase access token against the project's JWKS.
func ValidateToken(ctx context.Context, supabaseURL, tokenStr string) (*CustomClaims, error) {
	if supabaseURL == "" {
		return nil, errors.New("SUPABASE_URL not set")
	}

	jwksURL := fmt.Sprintf("%s/auth/v1/.well-known/jwks.json", strings.TrimRight(supabaseURL, "/"))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS: %w", err)
	}
	defer jwks.EndBackground()

	return ParseToken(tokenStr, jwks.Keyfunc)
}

// TokenValidator turns an access token into verified claims.
type TokenValidator func(ctx context.Context, tokenStr string) (*CustomClaims, error)

// JWKSValidator keeps the project's key set cached and refreshed in the
// background instead of fetching it per request.
type JWKSValidator struct {
	jwks *keyfunc.JWKS
}

func NewJWKSValidator(supabaseURL string) (*JWKSValidator, error) {
	if supabaseURL == "" {
		return nil, errors.New("SUPABASE_URL not set")
	}
	jwksURL := fmt.Sprintf("%s/auth/v1/.well-known/jwks.json", strings.TrimRight(supabaseURL, "/"))

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS: %w", err)
	}
	return &JWKSValidator{jwks: jwks}, nil
}

func (v *JWKSValidator) Validate(_ context.Context, tokenStr string) (*CustomClaims, error) {
	return ParseToken(tokenStr, v.jwks.Keyfunc)
}

func (v *JWKSValidator) Close() {
	v.jwks.EndBackground()
}

// ParseToken parses and validates tokenStr with the given key source.
func ParseToken(tokenStr string, keyFunc jwt.Keyfunc) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, keyFunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// MetadataString reads a string field out of the token's user metadata.
func (c *CustomClaims) MetadataString(key string) string {
	if c == nil || c.UserMetadata == nil {
		return ""
	}
	if v, ok := c.UserMetadata[key].(string); ok {
		return v
	}
	return ""
}

func StringTrim(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'")
}

// ContainsFold reports whether either string contains the other, ignoring case.
func ContainsFold(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// CloudinaryUploader pushes event images to Cloudinary.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

// UploadImage uploads a file path, URL or data URI into folder and returns its secure URL.
func (u *CloudinaryUploader) UploadImage(ctx context.Context, source, folder string) (string, error) {
	if u.cld == nil {
		return "", errors.New("cloudinary client is not initialized")
	}
	if strings.TrimSpace(source) == "" {
		return "", errors.New("image source is empty")
	}

	res, err := u.cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"happenings"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
