package repository

import (
	"context"
	"fmt"

	"github.com/sunridge-camp/portal-api/internal/domain"
	"github.com/sunridge-camp/portal-api/internal/repository/dao"
)

var ErrCamperNotFound = dao.ErrCamperNotFound

type CamperDAO interface {
	InsertForParent(ctx context.Context, camper dao.Camper, parentID uint) (dao.Camper, error)
	Update(ctx context.Context, camper dao.Camper) (dao.Camper, error)
	FindByID(ctx context.Context, id uint) (dao.Camper, error)
	FindByParentID(ctx context.Context, parentID uint) ([]dao.Camper, error)
	FindParentIDs(ctx context.Context, camperID uint) ([]uint, error)
	InsertLink(ctx context.Context, camperID, parentID uint) error
	IsLinked(ctx context.Context, camperID, parentID uint) (bool, error)
}

type CamperRepository struct {
	dao CamperDAO
}

func NewCamperRepository(dao CamperDAO) *CamperRepository {
	return &CamperRepository{
		dao: dao,
	}
}

func (r *CamperRepository) CreateForParent(ctx context.Context, camper domain.Camper, parentID uint) (domain.Camper, error) {
	created, err := r.dao.InsertForParent(ctx, r.domainToDAO(camper), parentID)
	if err != nil {
		return domain.Camper{}, fmt.Errorf("r.dao.InsertForParent -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CamperRepository) Update(ctx context.Context, camper domain.Camper) (domain.Camper, error) {
	existing, err := r.dao.FindByID(ctx, camper.ID)
	if err != nil {
		return domain.Camper{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	existing.Name = camper.Name
	existing.Birthdate = camper.Birthdate
	existing.Grade = camper.Grade
	existing.Phone = camper.Phone
	existing.PhotoURL = camper.PhotoURL

	updated, err := r.dao.Update(ctx, existing)
	if err != nil {
		return domain.Camper{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *CamperRepository) FindByID(ctx context.Context, id uint) (domain.Camper, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Camper{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CamperRepository) FindByParentID(ctx context.Context, parentID uint) ([]domain.Camper, error) {
	found, err := r.dao.FindByParentID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByParentID -> %w", err)
	}

	campers := make([]domain.Camper, len(found))
	for i, c := range found {
		campers[i] = r.daoToDomain(c)
	}

	return campers, nil
}

func (r *CamperRepository) IsOwnedBy(ctx context.Context, camperID, parentID uint) (bool, error) {
	linked, err := r.dao.IsLinked(ctx, camperID, parentID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsLinked -> %w", err)
	}

	return linked, nil
}

func (r *CamperRepository) LinkParent(ctx context.Context, camperID, parentID uint) error {
	if err := r.dao.InsertLink(ctx, camperID, parentID); err != nil {
		return fmt.Errorf("r.dao.InsertLink -> %w", err)
	}
	return nil
}

func (r *CamperRepository) domainToDAO(c domain.Camper) dao.Camper {
	return dao.Camper{
		ID:        c.ID,
		Name:      c.Name,
		Birthdate: c.Birthdate,
		Grade:     c.Grade,
		Phone:     c.Phone,
		PhotoURL:  c.PhotoURL,
	}
}

func (r *CamperRepository) daoToDomain(c dao.Camper) domain.Camper {
	return domain.Camper{
		ID:        c.ID,
		Name:      c.Name,
		Birthdate: c.Birthdate,
		Grade:     c.Grade,
		Phone:     c.Phone,
		PhotoURL:  c.PhotoURL,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
