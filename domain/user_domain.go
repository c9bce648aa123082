package domain

import "errors"

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login success"
	MessageSuccessGetMe          = "user profile retrieved successfully"
	MessageSuccessUpdateFCMToken = "fcm token updated successfully"
	MessageSuccessVerifyEmail    = "email verified successfully"

	MessageFailedRegister       = "failed to register user"
	MessageFailedLogin          = "failed to login"
	MessageFailedGetMe          = "failed to retrieve user profile"
	MessageFailedUpdateFCMToken = "failed to update fcm token"
	MessageFailedVerifyEmail    = "failed to verify email"

	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrCredentialsInvalid = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	MeResponse struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		Email          string  `json:"email"`
		IsVerified     bool    `json:"is_verified"`
		LinkedDeviceID *string `json:"linked_device_id,omitempty"`
	}

	UpdateFCMTokenRequest struct {
		FCMToken string `json:"fcm_token" validate:"required"`
	}
)
