package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joshua-takyi/happenings/internal/helpers"
	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSub = "0b6f8f2e-3c1a-4c55-9a57-6f1c2f1d2a10"

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProfiles struct {
	profile *models.Profile
	err     error
}

func (s stubProfiles) GetProfile(_ context.Context, _ uuid.UUID, _ string) (*models.Profile, error) {
	return s.profile, s.err
}

func acceptToken(want string) helpers.TokenValidator {
	return func(_ context.Context, token string) (*helpers.CustomClaims, error) {
		if token != want {
			return nil, errors.New("bad signature")
		}
		return &helpers.CustomClaims{
			Email:            "asha@example.com",
			UserMetadata:     map[string]interface{}{"full_name": "Asha From Token"},
			RegisteredClaims: jwt.RegisteredClaims{Subject: userSub},
		}, nil
	}
}

func viewerRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/whoami", func(c *gin.Context) {
		v := CurrentViewer(c)
		c.JSON(http.StatusOK, gin.H{"id": v.UserID, "name": v.DisplayName(), "avatar": v.AvatarURL})
	})
	return r
}

func doGet(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	body := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestViewerAnonymous(t *testing.T) {
	r := viewerRouter(Viewer(acceptToken("good"), nil, false, quietLogger))

	w, body := doGet(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, helpers.AnonymousUserID, body["id"])
}

func TestViewerRequired(t *testing.T) {
	r := viewerRouter(Viewer(acceptToken("good"), nil, true, quietLogger))

	w, body := doGet(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestViewerRejectsBadToken(t *testing.T) {
	r := viewerRouter(Viewer(acceptToken("good"), nil, false, quietLogger))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w, _ := doGet(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestViewerFromBearerUsesProfile(t *testing.T) {
	profiles := stubProfiles{profile: &models.Profile{FullName: "Asha Rao", AvatarURL: "https://example.com/asha.png"}}
	r := viewerRouter(Viewer(acceptToken("good"), profiles, true, quietLogger))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "bearer good")
	w, body := doGet(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userSub, body["id"])
	assert.Equal(t, "Asha Rao", body["name"])
	assert.Equal(t, "https://example.com/asha.png", body["avatar"])
}

func TestViewerFromCookieFallsBackToMetadata(t *testing.T) {
	profiles := stubProfiles{err: errors.New("profile not found")}
	r := viewerRouter(Viewer(acceptToken("good"), profiles, false, quietLogger))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "good"})
	w, body := doGet(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asha From Token", body["name"])
}

func TestRequestIDEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Get(RequestIDKey)
		c.String(http.StatusOK, id.(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestErrorHandlerWritesEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(quietLogger))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("mongo exploded"))
	})
	r.GET("/slow", func(c *gin.Context) {
		_ = c.Error(context.DeadlineExceeded)
	})
	r.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("already answered"))
		c.JSON(http.StatusConflict, models.ErrorResponse("conflict"))
	})

	w, body := doGet(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, w.Body.String(), "mongo exploded")

	w, _ = doGet(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	w, _ = doGet(r, httptest.NewRequest(http.MethodGet, "/handled", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}
