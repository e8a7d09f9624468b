package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fitcircle/fitcircle/internal/apperror"
	"github.com/fitcircle/fitcircle/internal/model"
	"github.com/fitcircle/fitcircle/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const AuthCookieName = "auth_token"

// Identity is what the identity provider vouches for in a token.
type Identity struct {
	UserID      string
	SessionID   string
	DisplayName string
	ImageURL    string
}

// AuthService verifies tokens issued by the identity provider. The user id
// in a valid token is trusted as is.
type AuthService struct {
	userRepository repository.UserRepository
	jwtSecret      string
	isProduction   bool
	jwtExpiry      time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtSecret:      jwtSecret,
		isProduction:   isProduction,
		jwtExpiry:      jwtExpiry,
	}
}

// IssueToken signs a token for the identity. A missing session id gets a
// fresh one. Used by development tooling and tests.
func (s *AuthService) IssueToken(identity Identity) (string, time.Time, error) {
	if identity.SessionID == "" {
		identity.SessionID = uuid.New().String()
	}

	now := time.Now()
	expiry := now.Add(s.jwtExpiry)
	claims := jwt.MapClaims{
		"user_id": identity.UserID,
		"sid":     identity.SessionID,
		"exp":     expiry.Unix(),
		"iat":     now.Unix(),
	}
	if identity.DisplayName != "" {
		claims["name"] = identity.DisplayName
	}
	if identity.ImageURL != "" {
		claims["picture"] = identity.ImageURL
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiry, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (*Identity, error) {
	const op = "auth.VerifyJWT"

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken.At(op)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken.At(op)
	}

	userID, _ := claims["user_id"].(string)
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidToken.At(op)
	}

	identity := &Identity{UserID: userID}
	identity.SessionID, _ = claims["sid"].(string)
	identity.DisplayName, _ = claims["name"].(string)
	identity.ImageURL, _ = claims["picture"].(string)

	if identity.SessionID == "" {
		// Tokens without a session id get one per issue time
		iat, _ := claims["iat"].(float64)
		identity.SessionID = fmt.Sprintf("%s-%d", userID, int64(iat))
	}

	return identity, nil
}

// SyncProfile stores the display data carried by the identity so member
// lists can show names and avatars.
func (s *AuthService) SyncProfile(ctx context.Context, identity *Identity) (*model.User, error) {
	const op = "auth.SyncProfile"

	user := &model.User{
		ID:          identity.UserID,
		DisplayName: strings.TrimSpace(identity.DisplayName),
		ImageURL:    strings.TrimSpace(identity.ImageURL),
	}
	if err := s.userRepository.Upsert(ctx, user); err != nil {
		return nil, apperror.Storage(op, err)
	}

	stored, err := s.userRepository.ByID(ctx, identity.UserID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	return stored, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
