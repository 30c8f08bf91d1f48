package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

var (
	// appJWTConfig is the default JWT auth middleware config; completed by ConfigureAuth.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "studentToken",
		Claims:        new(Claims),
	}

	contextStudentKey = "student"

	appName            string
	jwtExpiration      time.Duration
	jwtRefreshDeadline time.Duration
)

// ConfigureAuth wires the JWT middleware from config and returns it.
func ConfigureAuth(conf *core.Config) echo.MiddlewareFunc {
	appJWTConfig.SigningKey = []byte(conf.SecretKey)
	appName = conf.AppName
	jwtExpiration = conf.Server.JWTExpirationDelta
	jwtRefreshDeadline = conf.Server.JWTRefreshExpirationDelta
	return middleware.JWTWithConfig(appJWTConfig)
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role,omitempty"`
	IsAdmin      bool   `json:"is_admin,omitempty"`
}

func GetStudentClaims(std student.Student, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   std.ID,
			Audience:  "Academia",
			ExpiresAt: now.Add(jwtExpiration).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Email:        std.Email,
		Role:         std.Role,
		IsAdmin:      std.IsAdmin(),
	}
}

func authenticate(ctx echo.Context, email, pwd string, svc student.ServiceInterface) (*Claims, error) {
	std, err := svc.GetByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding student by email")
	}
	if err = std.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if std.IsActive != nil && !*std.IsActive {
		return nil, errAccountDeactivated
	}
	return GetStudentClaims(std), nil
}

// GenerateToken generates a signed JWT token string representing the student Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey.([]byte))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

// refreshClaims re-issues claims with a fresh expiry as long as the original
// issue time is within the refresh deadline.
func refreshClaims(claims Claims, svc student.ServiceInterface, ctx echo.Context) (*Claims, error) {
	origIat := time.Unix(claims.OrigIssuedAt, 0)
	if time.Since(origIat) > jwtRefreshDeadline {
		return nil, errRefreshExpired
	}
	std, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return nil, errHTTPNotFound
		}
		return nil, errors.Wrap(err, "finding student")
	}
	if std.IsActive != nil && !*std.IsActive {
		return nil, errAccountDeactivated
	}
	return GetStudentClaims(std, claims.OrigIssuedAt), nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextStudent(ctx echo.Context, svc student.ServiceInterface, clms ...Claims) (student.Student, error) {
	if std, ok := ctx.Get(contextStudentKey).(student.Student); ok {
		return std, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		if claims, err = getContextClaims(ctx); err != nil {
			return student.Student{}, err
		}
	}

	std, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, errHTTPNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student")
	}
	ctx.Set(contextStudentKey, std)
	return std, nil
}
