package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freshlens-backend/domain"
	"freshlens-backend/entities"
	"freshlens-backend/internal/utils"
	"freshlens-backend/internal/utils/mailing"
	"freshlens-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.MeResponse, error)
		UpdateFCMToken(ctx context.Context, userID string, req domain.UpdateFCMTokenRequest) error
		VerifyEmail(ctx context.Context, token string) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     domain.RoleUser,
	}

	if err := s.userRepository.Create(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}

	go s.sendVerificationEmail(user.Email)

	return domain.RegisterResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

func (s *userService) sendVerificationEmail(email string) {
	token, err := s.jwtService.GenerateTokenVerifyEmail(map[string]any{"email": email}, 24*time.Hour)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("user register: failed to build verification token")
		return
	}

	link := fmt.Sprintf("%s/api/v1/users/verify?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(
		"<p>Welcome to FreshLens!</p><p>Click <a href=%q>here</a> to verify your email.</p>",
		link,
	)
	if err := mailing.SendMail(email, "Verify your FreshLens account", body); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("user register: failed to send verification email")
	}
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.MeResponse, error) {
	user, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MeResponse{}, domain.ErrUserNotFound
		}
		return domain.MeResponse{}, err
	}

	return domain.MeResponse{
		ID:             user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		IsVerified:     user.IsVerified,
		LinkedDeviceID: user.LinkedDeviceID,
	}, nil
}

func (s *userService) UpdateFCMToken(ctx context.Context, userID string, req domain.UpdateFCMTokenRequest) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return s.userRepository.UpdateFCMToken(ctx, userUUID, req.FCMToken)
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateTokenVerifyEmail(token)
	if err != nil {
		return err
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return domain.ErrTokenInvalid
	}

	return s.userRepository.MarkVerified(ctx, email)
}
