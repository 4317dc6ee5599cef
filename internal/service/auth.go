package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/repository"
)

var (
	ErrModeratorEmailExists = repository.ErrModeratorEmailExists
	ErrModeratorNotFound    = repository.ErrModeratorNotFound
	ErrWrongPassword        = errors.New("wrong password")
)

type ModeratorRepository interface {
	Create(ctx context.Context, moderator domain.Moderator) (domain.Moderator, error)
	FindByID(ctx context.Context, id uint) (domain.Moderator, error)
	FindByEmail(ctx context.Context, email string) (domain.Moderator, error)
}

type AuthService struct {
	repo ModeratorRepository
}

func NewAuthService(repo ModeratorRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

func (s *AuthService) Signup(ctx context.Context, moderator domain.Moderator) (domain.Moderator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(moderator.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Moderator{}, err
	}
	moderator.Password = string(hash)

	created, err := s.repo.Create(ctx, moderator)
	if err != nil {
		return domain.Moderator{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Moderator, error) {
	moderator, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrModeratorNotFound) {
			return domain.Moderator{}, ErrModeratorNotFound
		}

		return domain.Moderator{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(moderator.Password), []byte(password)); err != nil {
		return domain.Moderator{}, ErrWrongPassword
	}

	return moderator, nil
}

func (s *AuthService) GetModerator(ctx context.Context, id uint) (domain.Moderator, error) {
	moderator, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Moderator{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return moderator, nil
}
