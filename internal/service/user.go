package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/models"
	"github.com/ecofinds/marketplace/internal/repo"
)

type UserService struct {
	DB *gorm.DB
}

type ProfileInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	users := &repo.UserRepo{DB: s.DB}

	user, err := users.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*models.User, error) {
	users := &repo.UserRepo{DB: s.DB}

	user, err := users.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if e := strings.TrimSpace(in.Email); e != "" {
		user.Email = e
	}
	if f := strings.TrimSpace(in.FirstName); f != "" {
		user.FirstName = f
	}
	if l := strings.TrimSpace(in.LastName); l != "" {
		user.LastName = l
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
