package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/entity"
	"github.com/hellodap/dap-backend/internal/repository"
	"github.com/hellodap/dap-backend/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	SetPushToken(ctx context.Context, userID uuid.UUID, token *string) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	// timeout bounds each auth operation so a slow backend produces a
	// distinct timeout error instead of an indefinite hang.
	timeout time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, timeout time.Duration) AuthService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		timeout:   timeout,
	}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.New(409, "this email is already registered", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapTimeout(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entity.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	profile := entity.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Gender:    req.Gender,
		Origin:    req.Origin,
		Sexuality: req.Sexuality,
	}

	if err := s.userRepo.Create(ctx, &user, &profile); err != nil {
		return nil, mapTimeout(err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	user.Profile = &profile
	return &dto.AuthResponse{Token: token, User: &user}, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, mapTimeout(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) SetPushToken(ctx context.Context, userID uuid.UUID, token *string) error {
	return s.userRepo.SetPushToken(ctx, userID, token)
}

func (s *authService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.DeleteCascade(ctx, userID)
}

func (s *authService) issueToken(userID uuid.UUID) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.ErrTimeout
	}
	return err
}
