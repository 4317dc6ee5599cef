package repository

import (
	"context"
	"fmt"

	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/repository/dao"
)

var (
	ErrModeratorEmailExists = dao.ErrModeratorEmailExists
	ErrModeratorNotFound    = dao.ErrModeratorNotFound
)

type ModeratorDAO interface {
	Insert(ctx context.Context, moderator dao.Moderator) (dao.Moderator, error)
	FindByID(ctx context.Context, id uint) (dao.Moderator, error)
	FindByEmail(ctx context.Context, email string) (dao.Moderator, error)
}

type ModeratorRepository struct {
	dao ModeratorDAO
}

func NewModeratorRepository(dao ModeratorDAO) *ModeratorRepository {
	return &ModeratorRepository{
		dao: dao,
	}
}

func (r *ModeratorRepository) Create(ctx context.Context, moderator domain.Moderator) (domain.Moderator, error) {
	created, err := r.dao.Insert(ctx, dao.Moderator{
		Email:    moderator.Email,
		Password: moderator.Password,
		Name:     moderator.Name,
	})
	if err != nil {
		return domain.Moderator{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ModeratorRepository) FindByID(ctx context.Context, id uint) (domain.Moderator, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Moderator{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ModeratorRepository) FindByEmail(ctx context.Context, email string) (domain.Moderator, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.Moderator{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ModeratorRepository) daoToDomain(m dao.Moderator) domain.Moderator {
	return domain.Moderator{
		ID:        m.ID,
		Email:     m.Email,
		Password:  m.Password,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
