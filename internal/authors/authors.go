package authors

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/playmatatu/minigolf/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// GetAuthor retrieves an author account by name
func GetAuthor(ctx context.Context, db *sqlx.DB, name string) (*models.Author, error) {
	var author models.Author
	err := db.GetContext(ctx, &author, `SELECT name, token_hash, roles, created_at, updated_at FROM authors WHERE name=$1`, name)
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// VerifyToken checks if the provided token matches the stored hash
func VerifyToken(hashedToken, plainToken string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken))
	return err == nil
}

// HashToken hashes an access token for storage
func HashToken(plainToken string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}

// CreateAuthor creates or updates an author account (used for seeding)
func CreateAuthor(ctx context.Context, db *sqlx.DB, name, plainToken string, roles []string) error {
	hashedToken, err := HashToken(plainToken)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO authors (name, token_hash, roles, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			token_hash = EXCLUDED.token_hash,
			roles = EXCLUDED.roles,
			updated_at = NOW()
	`, name, hashedToken, pq.Array(roles))

	return err
}

// IssueToken signs a session JWT for an author.
func IssueToken(cfg *config.Config, author string) (string, time.Time, error) {
	minutes := cfg.SessionTimeoutMin
	if minutes <= 0 {
		minutes = 60
	}
	exp := time.Now().Add(time.Duration(minutes) * time.Minute)

	claims := jwt.MapClaims{"author": author, "exp": jwt.NewNumericDate(exp).Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken validates a session JWT and returns the author it was issued to.
func ParseToken(cfg *config.Config, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	author, ok := claims["author"].(string)
	if !ok || author == "" {
		return "", fmt.Errorf("token has no author")
	}
	return author, nil
}

// Store adapts the package functions to a handler-facing lookup.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetAuthor(ctx context.Context, name string) (*models.Author, error) {
	return GetAuthor(ctx, s.db, name)
}
