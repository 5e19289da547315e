package services

import (
	"fmt"

	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/app/repositories"
	"github.com/zmaxim/skystore/pkg/apperr"
	"github.com/zmaxim/skystore/pkg/auth"
	"github.com/zmaxim/skystore/pkg/metrics"
	"github.com/zmaxim/skystore/pkg/notification"
)

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation" validate:"nullable"`
	FirstName            string `json:"first_name" validate:"nullable,max=100"`
	LastName             string `json:"last_name" validate:"nullable,max=100"`
	Phone                string `json:"phone" validate:"nullable,max=20"`
	Country              string `json:"country" validate:"nullable,max=100"`
}

// AuthService registers and authenticates users.
type AuthService struct {
	users  *repositories.UserRepository
	notify notification.Sender
}

func NewAuthService(users *repositories.UserRepository, notify notification.Sender) *AuthService {
	if notify == nil {
		notify = notification.Send
	}
	return &AuthService{users: users, notify: notify}
}

// Register creates an account and sends the welcome notification.
// Notification failures never fail the registration.
func (s *AuthService) Register(in RegisterInput) (models.User, error) {
	taken, err := s.users.EmailTaken(in.Email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, apperr.ValidationField("email", "email is already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Country:   in.Country,
		Role:      "user",
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}

	s.notify(notification.Message{
		To:      user.Email,
		Subject: "Welcome aboard",
		Body:    "Thanks for signing up. Your account is ready to use.",
	})
	metrics.NotificationsSent.WithLabelValues("welcome").Inc()

	return user, nil
}

// Login verifies credentials and issues a JWT. Wrong email and wrong
// password produce the same error so the endpoint does not leak which
// accounts exist.
func (s *AuthService) Login(email, password string) (string, models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return "", models.User{}, apperr.ErrUnauthorized
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", models.User{}, apperr.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", models.User{}, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// UpdateProfileInput is the validated profile update payload.
type UpdateProfileInput struct {
	FirstName string `json:"first_name" validate:"nullable,max=100"`
	LastName  string `json:"last_name" validate:"nullable,max=100"`
	Phone     string `json:"phone" validate:"nullable,max=20"`
	Country   string `json:"country" validate:"nullable,max=100"`
	Avatar    string `json:"avatar" validate:"nullable,max=255"`
}

// UpdateProfile applies profile fields to the user's own record.
func (s *AuthService) UpdateProfile(userID uint, in UpdateProfileInput) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Phone = in.Phone
	user.Country = in.Country
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
