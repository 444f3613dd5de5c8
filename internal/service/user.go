package service

import (
	"errors"

	"github.com/AlanVogel/ChatAppSample/internal/auth"
	"github.com/AlanVogel/ChatAppSample/internal/config"
	"github.com/AlanVogel/ChatAppSample/internal/models"
	"github.com/AlanVogel/ChatAppSample/internal/repo"
	"github.com/AlanVogel/ChatAppSample/internal/token"
	"gorm.io/gorm"
)

// UserService holds the registration, login and profile use cases.
type UserService struct {
	store *repo.Store
	cfg   config.Config
}

func NewUserService(store *repo.Store, cfg config.Config) *UserService {
	return &UserService{store: store, cfg: cfg}
}

// UserSummary is the user data exposed to callers. The password hash and key
// word never leave the service layer.
type UserSummary struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nick_name"`
	Email    string `json:"email"`
}

// Register creates a user with a bcrypt-hashed credential. The email must be
// unused; a concurrent duplicate resolves at the unique index and reports the
// same conflict.
func (s *UserService) Register(nickname, email, password string) (*UserSummary, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	var out *UserSummary
	err = s.store.Atomic(func(r *repo.Store) error {
		if _, err := r.UserByEmail(email); err == nil {
			return ErrEmailExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user := models.User{Nickname: nickname, Email: email, PasswordHash: hash}
		if err := r.CreateUser(&user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailExists
			}
			return err
		}
		out = &UserSummary{ID: user.ID, Nickname: user.Nickname, Email: user.Email}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoginResult carries the freshly issued token for the rotated key word.
type LoginResult struct {
	UserID uint   `json:"user_id"`
	Token  string `json:"token"`
}

// Login verifies the credential, rotates the user's key word and issues a
// token signed with the new one. Every previously issued token stops
// verifying the moment the rotation commits.
func (s *UserService) Login(email, password string) (*LoginResult, error) {
	var out *LoginResult
	err := s.store.Atomic(func(r *repo.Store) error {
		user, err := r.UserByEmail(email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !auth.VerifyPassword(user.PasswordHash, password) {
			return ErrInvalidCredentials
		}
		kw, err := token.NewKeyWord(s.cfg.KeyWordLength)
		if err != nil {
			return err
		}
		if err := r.UpdateKeyWord(user.ID, kw); err != nil {
			return err
		}
		t, err := token.Issue(user.ID, user.Nickname, kw)
		if err != nil {
			return err
		}
		out = &LoginResult{UserID: user.ID, Token: t}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one user's public fields.
func (s *UserService) Get(id uint) (*UserSummary, error) {
	var out *UserSummary
	err := s.store.Atomic(func(r *repo.Store) error {
		user, err := r.UserByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		out = &UserSummary{ID: user.ID, Nickname: user.Nickname, Email: user.Email}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
