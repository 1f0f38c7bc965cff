package services

import (
	"errors"

	"idm_backend/internal/events"
	"idm_backend/internal/models"
	"idm_backend/internal/pagination"
	"idm_backend/internal/repositories"
	"idm_backend/internal/services/dto"
	"idm_backend/internal/validator"
	"idm_backend/pkg/apperrors"
)

type PermissionService interface {
	All(p pagination.Params) (*pagination.Result, error)
	Create(req *dto.CreatePermissionRequest) (*models.Permission, []events.Event, error)
	FirstOrCreate(req *dto.CreatePermissionRequest) (*models.Permission, error)
	Find(param, search string, regex bool, p pagination.Params) (*pagination.Result, error)
	FindByID(id string) (*models.Permission, error)
	FindByName(name string) (*models.Permission, error)
	Update(id string, req *dto.UpdatePermissionRequest) (*models.Permission, error)
	Delete(id string) error
}

type PermissionServiceImpl struct {
	permRepo repositories.PermissionRepository
	validate *validator.Validator
}

func NewPermissionService(permRepo repositories.PermissionRepository, validate *validator.Validator) PermissionService {
	return &PermissionServiceImpl{permRepo: permRepo, validate: validate}
}

func (s *PermissionServiceImpl) All(p pagination.Params) (*pagination.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	perms, total, err := s.permRepo.All(p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := pagination.NewResult(perms, total, p)
	return &result, nil
}

func (s *PermissionServiceImpl) Create(req *dto.CreatePermissionRequest) (*models.Permission, []events.Event, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, nil, asCreateError("Permission", err)
	}

	perm := &models.Permission{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
	}

	if err := s.permRepo.Create(perm); err != nil {
		if errors.Is(err, repositories.ErrPermissionAlreadyExists) {
			return nil, nil, apperrors.CannotCreate("Permission",
				map[string]string{"name": "A permission with this name already exists"})
		}
		return nil, nil, apperrors.Internal(err)
	}

	return perm, []events.Event{events.PermissionCreated{Permission: perm}}, nil
}

func (s *PermissionServiceImpl) FirstOrCreate(req *dto.CreatePermissionRequest) (*models.Permission, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, asCreateError("Permission", err)
	}

	perm, err := s.permRepo.FirstOrCreate(&models.Permission{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return perm, nil
}

func (s *PermissionServiceImpl) Find(param, search string, regex bool, p pagination.Params) (*pagination.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	perms, total, err := s.permRepo.Find(param, search, regex, p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := pagination.NewResult(perms, total, p)
	return &result, nil
}

func (s *PermissionServiceImpl) FindByID(id string) (*models.Permission, error) {
	perm, err := s.permRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrPermissionNotFound) {
			return nil, apperrors.NotFound("Permission")
		}
		return nil, apperrors.Internal(err)
	}
	return perm, nil
}

func (s *PermissionServiceImpl) FindByName(name string) (*models.Permission, error) {
	perm, err := s.permRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, repositories.ErrPermissionNotFound) {
			return nil, apperrors.NotFound("Permission")
		}
		return nil, apperrors.Internal(err)
	}
	return perm, nil
}

func (s *PermissionServiceImpl) Update(id string, req *dto.UpdatePermissionRequest) (*models.Permission, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, asUpdateError("Permission", err)
	}

	perm, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		perm.Name = *req.Name
	}
	if req.DisplayName != nil {
		perm.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		perm.Description = *req.Description
	}

	if err := s.permRepo.Update(perm); err != nil {
		return nil, apperrors.Internal(err)
	}
	return perm, nil
}

func (s *PermissionServiceImpl) Delete(id string) error {
	if err := s.permRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrPermissionNotFound) {
			return apperrors.NotFound("Permission")
		}
		return apperrors.Internal(err)
	}
	return nil
}
