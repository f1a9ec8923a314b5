package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	issuer := NewIssuer("secret")

	token, err := issuer.GenerateToken(User{ID: "user-1"})
	require.NoError(t, err)

	user, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	token, err := NewIssuer("secret").GenerateToken(User{ID: "user-1"})
	require.NoError(t, err)

	_, err = NewIssuer("other").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	issuer := NewIssuer("secret")
	issuer.now = func() time.Time { return time.Now().Add(-30 * 24 * time.Hour) }
	token, err := issuer.GenerateToken(User{ID: "user-1"})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := NewIssuer("secret")
	token, err := issuer.GenerateToken(User{ID: "user-1"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", issuer.RequireUser(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c))
	})

	tests := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{"bearer header", "Bearer " + token, "", http.StatusOK, "user-1"},
		{"query token", "", "?token=" + token, http.StatusOK, "user-1"},
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
