package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz_backend/internal/config"
	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SessionStore interface {
	Create(ctx context.Context, sid string, userID uint) error
	UserID(ctx context.Context, sid string) (uint, error)
	Destroy(ctx context.Context, sid string) error
}

// Session 登录后签发的会话
type Session struct {
	Token     string      `json:"token"`
	SessionID string      `json:"-"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Sessions SessionStore
	Cfg      *config.Config

	validate *validator.Validate
}

func NewAuthService(userRepo *repository.UserRepository, sessions SessionStore, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Sessions: sessions,
		Cfg:      cfg,
		validate: newValidator(),
	}
}

// Register 创建用户并直接登录
func (s *AuthService) Register(ctx context.Context, form *model.SignupForm) (*Session, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if errs := validateForm(s.validate, form); errs != nil {
		return nil, &FormValidationError{Errors: errs}
	}

	taken := &FormValidationError{
		Errors: model.FormErrors{"username": "A user with that username already exists."},
		Err:    util.ErrUsernameTaken,
	}
	exists, err := s.UserRepo.ExistsByUsername(ctx, form.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, taken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: form.Username,
		Email:    form.Email,
		Password: string(hashedPassword),
	}
	// 并发注册同名用户时由唯一索引兜底
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, util.ErrUsernameTaken) {
			return nil, taken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return s.OpenSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, form *model.LoginForm) (*Session, error) {
	invalid := &FormValidationError{
		Errors: model.FormErrors{"": "Please enter a correct username and password. Note that both fields may be case-sensitive."},
		Err:    util.ErrInvalidCredentials,
	}
	if errs := validateForm(s.validate, form); errs != nil {
		return nil, &FormValidationError{Errors: errs, Err: util.ErrInvalidCredentials}
	}

	user, err := s.UserRepo.FindByUsername(ctx, form.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		return nil, invalid
	}

	return s.OpenSession(ctx, user)
}

// OpenSession 在 redis 中登记会话并签发令牌
func (s *AuthService) OpenSession(ctx context.Context, user *model.User) (*Session, error) {
	sid := uuid.New().String()
	if err := s.Sessions.Create(ctx, sid, user.ID); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := util.GenerateJWT(user, sid, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	user.LastLogin = &now

	return &Session{
		Token:     token,
		SessionID: sid,
		ExpiresAt: now.Add(s.Cfg.JWT.ExpireTime),
		User:      user,
	}, nil
}

// Authenticate 校验令牌并确认会话仍然有效
func (s *AuthService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	userID, err := s.Sessions.UserID(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if userID != claims.UserID {
		return nil, util.ErrSessionNotFound
	}
	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Sessions.Destroy(ctx, sid)
}

func (s *AuthService) GetCurrentUser(ctx context.Context, claims *util.Claims) (*model.User, error) {
	if claims == nil {
		return nil, util.ErrUserNotFound
	}
	user, err := s.UserRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}
