package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	DefaultOperatorSessionTTL = 12 * time.Hour
	tokenIssuer               = "foodorders"
)

var ErrInvalidCredentials = errors.New("invalid operator credentials")

// OperatorAuth is the access gate of the dashboard: one static credential, exchanged for
// a signed session token that the operator routes require.
type OperatorAuth struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewOperatorAuth(username, password string, secret []byte, ttl time.Duration) (*OperatorAuth, error) {
	if username == "" || password == "" {
		return nil, errors.New("operator username and password are required")
	}
	if len(secret) == 0 {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultOperatorSessionTTL
	}
	return &OperatorAuth{
		username: username,
		password: password,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Issue checks the credential and signs a session token for it.
func (a *OperatorAuth) Issue(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Middleware gates a route group on a valid session token. EventSource clients cannot set
// headers, so the token is also accepted as the "token" query parameter.
func (a *OperatorAuth) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    a.secret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		TokenLookup:   "header:Authorization:Bearer ,query:token",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(jwt.RegisteredClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "operator session required")
		},
	})
}

func (s *Server) OperatorLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	token, err := s.auth.Issue(req.Username, req.Password)
	if err != nil {
		s.logger.Warn("operator login rejected", "username", req.Username)
		return c.JSON(http.StatusUnauthorized, errorResponse{
			Code:    http.StatusUnauthorized,
			Message: ErrInvalidCredentials.Error(),
		})
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.auth.ttl.Seconds()),
	})
}
