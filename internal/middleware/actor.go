package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ContextActorKey is the gin context key storing the acting user id.
const ContextActorKey = "actor"

// ActorHeader lets trusted callers name the actor without a token.
const ActorHeader = "X-Actor-ID"

// ActorClaims is the token payload used to identify the caller.
type ActorClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// Actor resolves who performs the request: a valid HS256 bearer token subject first,
// then the X-Actor-ID header, then fallback. Invalid tokens are logged and ignored.
func Actor(secret, fallback string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := []byte(secret)
	return func(c *gin.Context) {
		actor := ""
		if token := bearerToken(c.GetHeader("Authorization")); token != "" && len(key) > 0 {
			subject, err := parseSubject(token, key)
			if err != nil {
				logger.Debug("actor token rejected", zap.Error(err))
			}
			actor = subject
		}
		if actor == "" {
			actor = strings.TrimSpace(c.GetHeader(ActorHeader))
		}
		if actor == "" {
			actor = fallback
		}
		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the actor stored by Actor, or an empty string.
func ActorFromContext(c *gin.Context) string {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return ""
	}
	actor, _ := value.(string)
	return actor
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func parseSubject(raw string, key []byte) (string, error) {
	claims := &ActorClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(claims.Subject), nil
}
