package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"shopping_back_end_go/auth"
	"shopping_back_end_go/db"
	"shopping_back_end_go/models"
)

// AccountService registers profiles and issues session tokens.
type AccountService struct {
	db     db.DBTX
	issuer *auth.Issuer
	cost   int
}

func NewAccountService(conn db.DBTX, issuer *auth.Issuer) *AccountService {
	return &AccountService{db: conn, issuer: issuer, cost: bcrypt.DefaultCost}
}

func (a *AccountService) Register(ctx context.Context, req models.RegisterRequest) (models.Profile, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if strings.Contains(username, "@") {
		return models.Profile{}, "", ErrInvalidUsername
	}

	// e-mail and username share one identifier space for share lookups
	var existing string
	err := a.db.QueryRow(ctx,
		`SELECT id FROM profiles
		WHERE LOWER(email) IN ($1, LOWER($2)) OR LOWER(username) IN ($1, LOWER($2))
		LIMIT 1`,
		email, username).Scan(&existing)
	if err == nil {
		return models.Profile{}, "", ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{}, "", fmt.Errorf("check existing profile: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.cost)
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("hash password: %w", err)
	}

	p := models.Profile{Email: email, Username: username, DisplayName: strings.TrimSpace(req.DisplayName)}
	err = a.db.QueryRow(ctx,
		`INSERT INTO profiles (email, username, display_name, hashed_password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, p.Email, p.Username, p.DisplayName, string(hashed)).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return models.Profile{}, "", ErrEmailTaken
		}
		return models.Profile{}, "", fmt.Errorf("insert profile: %w", err)
	}

	token, err := a.issuer.GenerateToken(auth.User{ID: p.ID})
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("generate token: %w", err)
	}
	log.Info().Str("user_id", p.ID).Msg("profile registered")
	return p, token, nil
}

func (a *AccountService) Login(ctx context.Context, req models.LoginRequest) (models.Profile, string, error) {
	var p models.Profile
	err := a.db.QueryRow(ctx,
		`SELECT id, email, username, display_name, hashed_password, created_at
		FROM profiles WHERE LOWER(email) = LOWER($1)`, strings.TrimSpace(req.Email)).
		Scan(&p.ID, &p.Email, &p.Username, &p.DisplayName, &p.HashedPassword, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, "", ErrInvalidCredentials
		}
		return models.Profile{}, "", fmt.Errorf("load profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.HashedPassword), []byte(req.Password)); err != nil {
		return models.Profile{}, "", ErrInvalidCredentials
	}

	token, err := a.issuer.GenerateToken(auth.User{ID: p.ID})
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("generate token: %w", err)
	}
	return p, token, nil
}

func (a *AccountService) Profile(ctx context.Context, userID string) (models.Profile, error) {
	var p models.Profile
	err := a.db.QueryRow(ctx,
		`SELECT id, email, username, display_name, created_at FROM profiles WHERE id = $1`, userID).
		Scan(&p.ID, &p.Email, &p.Username, &p.DisplayName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrUserNotFound
		}
		return models.Profile{}, fmt.Errorf("load profile %s: %w", userID, err)
	}
	return p, nil
}
