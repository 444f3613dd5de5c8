package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AlanVogel/ChatAppSample/internal/config"
	"github.com/AlanVogel/ChatAppSample/internal/metrics"
	"github.com/AlanVogel/ChatAppSample/internal/models"
	"github.com/AlanVogel/ChatAppSample/internal/repo"
	"github.com/AlanVogel/ChatAppSample/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	userIDHeader = "X-User-ID"
	userKey      = "authUser"
	refreshKey   = "refreshToken"
)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Middleware gates every protected route. Identity travels out of band as an
// X-User-ID header plus a bearer token signed with the user's rotating key
// word. An unknown user is a 404; any token failure after that point is a
// plain 401 so the response does not reveal more about the account.
func Middleware(cfg config.Config, store *repo.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.GetHeader(userIDHeader)
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			abort(c, http.StatusUnauthorized, "Authorization failed!")
			return
		}
		user, err := store.UserByID(uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abort(c, http.StatusNotFound, "User does not exist!")
				return
			}
			log.Error().Err(err).Uint64("user_id", id).Msg("auth user lookup")
			abort(c, http.StatusInternalServerError, "Something went wrong!")
			return
		}

		// A user who has never logged in has no key word yet; provision one
		// so the account is not permanently locked out of verification.
		if user.KeyWord == "" {
			kw, err := token.NewKeyWord(cfg.KeyWordLength)
			if err != nil {
				abort(c, http.StatusInternalServerError, "Something went wrong!")
				return
			}
			if err := store.UpdateKeyWord(user.ID, kw); err != nil {
				log.Error().Err(err).Uint("user_id", user.ID).Msg("provision key word")
				abort(c, http.StatusInternalServerError, "Something went wrong!")
				return
			}
			user.KeyWord = kw
		}

		tokenStr := bearerToken(c)
		claims, err := token.Verify(tokenStr, user.KeyWord)
		if err != nil || claims.UserID != user.ID {
			metrics.AuthFailures.Inc()
			log.Warn().Uint("user_id", user.ID).Msg("token verification failed")
			abort(c, http.StatusUnauthorized, "Authorization failed!")
			return
		}
		c.Set(userKey, user)

		// Optional sliding refresh: rotate the key word now and surface the
		// replacement token on the success envelope.
		if cfg.SlidingRefresh {
			kw, err := token.NewKeyWord(cfg.KeyWordLength)
			if err == nil {
				if err := store.UpdateKeyWord(user.ID, kw); err == nil {
					if fresh, err := token.Issue(user.ID, user.Nickname, kw); err == nil {
						c.Set(refreshKey, fresh)
					}
				}
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[len("Bearer "):])
}

// CurrentUser returns the user the middleware authenticated on this request.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok2 := v.(*models.User); ok2 {
			return u
		}
	}
	return nil
}

// RefreshedToken returns the sliding-refresh token for this request, if one
// was issued.
func RefreshedToken(c *gin.Context) (string, bool) {
	if v, ok := c.Get(refreshKey); ok {
		if t, ok2 := v.(string); ok2 && t != "" {
			return t, true
		}
	}
	return "", false
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"status":      "ERROR",
		"code":        code,
		"server_time": time.Now().UTC().Format(time.RFC3339),
		"message":     message,
	})
}
