package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shouni/hyperreal-studio/pkg/studio"
)

const (
	// SessionCookieName はセッション Cookie の名前です。
	SessionCookieName = "hyperreal_session"
	// 16 バイト = 128 ビット
	sessionIDLength = 16
	sessionMaxAge   = 24 * 60 * 60
	sessionIDCtxKey = "session_id"
)

func generateSessionID() (string, error) {
	b := make([]byte, sessionIDLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func validSessionID(id string) bool {
	if len(id) != sessionIDLength*2 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// sessionMiddleware は全リクエストにセッション ID を割り当てます。
// 有効な Cookie が無ければ新しい ID を発行して Cookie を設定します。
func sessionMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookieName)
		if err != nil || !validSessionID(id) {
			id, err = generateSessionID()
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
				return
			}
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(SessionCookieName, id, sessionMaxAge, "/", "", secure, true)
		}
		c.Set(sessionIDCtxKey, id)
		c.Next()
	}
}

// studioFor はリクエストのセッションに対応する Studio を返します。
func (s *HttpServer) studioFor(c *gin.Context) (*studio.Studio, bool) {
	st, err := s.sessions.Get(c.GetString(sessionIDCtxKey))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return st, true
}
