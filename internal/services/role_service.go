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

type RoleService interface {
	All(p pagination.Params) (*pagination.Result, error)
	Create(req *dto.CreateRoleRequest) (*models.Role, []events.Event, error)
	FirstOrCreate(req *dto.CreateRoleRequest) (*models.Role, error)
	Find(param, search string, regex bool, p pagination.Params) (*pagination.Result, error)
	FindByID(id string) (*models.Role, error)
	FindByName(name string) (*models.Role, error)
	Update(id string, req *dto.UpdateRoleRequest) (*models.Role, []events.Event, error)
	SetDefault(id string) error
	Delete(id string) error

	SetPermissions(roleID string, permNames []string) (*models.Role, error)
	AttachPermission(roleID, permName string) error
	DetachPermission(roleID, permName string) error
}

type RoleServiceImpl struct {
	roleRepo repositories.RoleRepository
	permRepo repositories.PermissionRepository
	validate *validator.Validator
}

func NewRoleService(
	roleRepo repositories.RoleRepository,
	permRepo repositories.PermissionRepository,
	validate *validator.Validator,
) RoleService {
	return &RoleServiceImpl{roleRepo: roleRepo, permRepo: permRepo, validate: validate}
}

func (s *RoleServiceImpl) All(p pagination.Params) (*pagination.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	roles, total, err := s.roleRepo.All(p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := pagination.NewResult(roles, total, p)
	return &result, nil
}

func (s *RoleServiceImpl) Create(req *dto.CreateRoleRequest) (*models.Role, []events.Event, error) {
	role, err := s.buildRole(req)
	if err != nil {
		return nil, nil, err
	}

	if err := s.roleRepo.Create(role); err != nil {
		if errors.Is(err, repositories.ErrRoleAlreadyExists) {
			return nil, nil, apperrors.CannotCreate("Role",
				map[string]string{"name": "A role with this name already exists"})
		}
		return nil, nil, apperrors.Internal(err)
	}

	return role, []events.Event{events.RoleCreated{Role: role}}, nil
}

// FirstOrCreate returns the existing role by name or creates it. Used
// by seeding; inherits the repository's non-atomic semantics.
func (s *RoleServiceImpl) FirstOrCreate(req *dto.CreateRoleRequest) (*models.Role, error) {
	role, err := s.buildRole(req)
	if err != nil {
		return nil, err
	}

	role, err = s.roleRepo.FirstOrCreate(role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return role, nil
}

func (s *RoleServiceImpl) Find(param, search string, regex bool, p pagination.Params) (*pagination.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	roles, total, err := s.roleRepo.Find(param, search, regex, p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := pagination.NewResult(roles, total, p)
	return &result, nil
}

func (s *RoleServiceImpl) FindByID(id string) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			return nil, apperrors.NotFound("Role")
		}
		return nil, apperrors.Internal(err)
	}
	return role, nil
}

func (s *RoleServiceImpl) FindByName(name string) (*models.Role, error) {
	role, err := s.roleRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			return nil, apperrors.NotFound("Role")
		}
		return nil, apperrors.Internal(err)
	}
	return role, nil
}

func (s *RoleServiceImpl) Update(id string, req *dto.UpdateRoleRequest) (*models.Role, []events.Event, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, nil, asUpdateError("Role", err)
	}

	role, err := s.FindByID(id)
	if err != nil {
		return nil, nil, err
	}

	changed := make(map[string]interface{})
	if req.Name != nil && *req.Name != role.Name {
		role.Name = *req.Name
		changed["name"] = *req.Name
	}
	if req.DisplayName != nil && *req.DisplayName != role.DisplayName {
		role.DisplayName = *req.DisplayName
		changed["display_name"] = *req.DisplayName
	}
	if req.Description != nil && *req.Description != role.Description {
		role.Description = *req.Description
		changed["description"] = *req.Description
	}

	if len(changed) == 0 {
		return role, nil, nil
	}

	if err := s.roleRepo.Update(role); err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	return role, []events.Event{events.RoleUpdated{Role: role, Changed: changed}}, nil
}

func (s *RoleServiceImpl) SetDefault(id string) error {
	if err := s.roleRepo.SetDefault(id); err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			return apperrors.NotFound("Role")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *RoleServiceImpl) Delete(id string) error {
	if err := s.roleRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			return apperrors.NotFound("Role")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *RoleServiceImpl) SetPermissions(roleID string, permNames []string) (*models.Role, error) {
	role, err := s.FindByID(roleID)
	if err != nil {
		return nil, err
	}

	perms := make([]models.Permission, 0, len(permNames))
	for _, name := range permNames {
		perm, err := s.permRepo.FindByName(name)
		if err != nil {
			if errors.Is(err, repositories.ErrPermissionNotFound) {
				return nil, apperrors.NotFound("Permission")
			}
			return nil, apperrors.Internal(err)
		}
		perms = append(perms, *perm)
	}

	if err := s.roleRepo.SetPermissions(role, perms); err != nil {
		return nil, apperrors.Internal(err)
	}
	role.Permissions = perms
	return role, nil
}

func (s *RoleServiceImpl) AttachPermission(roleID, permName string) error {
	role, err := s.FindByID(roleID)
	if err != nil {
		return err
	}

	perm, err := s.permRepo.FindByName(permName)
	if err != nil {
		if errors.Is(err, repositories.ErrPermissionNotFound) {
			return apperrors.NotFound("Permission")
		}
		return apperrors.Internal(err)
	}

	if err := s.roleRepo.AddPermission(role, perm); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *RoleServiceImpl) DetachPermission(roleID, permName string) error {
	role, err := s.FindByID(roleID)
	if err != nil {
		return err
	}

	perm, err := s.permRepo.FindByName(permName)
	if err != nil {
		if errors.Is(err, repositories.ErrPermissionNotFound) {
			return apperrors.NotFound("Permission")
		}
		return apperrors.Internal(err)
	}

	if err := s.roleRepo.RemovePermission(role, perm); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// buildRole validates the request and assembles the role with its
// permissions staged in memory, ready for a single create.
func (s *RoleServiceImpl) buildRole(req *dto.CreateRoleRequest) (*models.Role, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, asCreateError("Role", err)
	}

	role := &models.Role{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
	}

	for _, name := range req.Permissions {
		perm, err := s.permRepo.FindByName(name)
		if err != nil {
			if errors.Is(err, repositories.ErrPermissionNotFound) {
				return nil, apperrors.CannotCreate("Role",
					map[string]string{"permissions": "Unknown permission: " + name})
			}
			return nil, apperrors.Internal(err)
		}
		s.roleRepo.StagePermission(role, perm)
	}

	return role, nil
}
