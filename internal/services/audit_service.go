package services

import (
	"idm_backend/internal/pagination"
	"idm_backend/internal/repositories"
	"idm_backend/pkg/apperrors"
)

// AuditService exposes the append-only event trail.
type AuditService interface {
	All(p pagination.Params) (*pagination.Result, error)
	ByActor(actorID string, p pagination.Params) (*pagination.Result, error)
}

type AuditServiceImpl struct {
	auditRepo repositories.AuditLogRepository
}

func NewAuditService(auditRepo repositories.AuditLogRepository) AuditService {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

func (s *AuditServiceImpl) All(p pagination.Params) (*pagination.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	entries, total, err := s.auditRepo.All(p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := pagination.NewResult(entries, total, p)
	return &result, nil
}

func (s *AuditServiceImpl) ByActor(actorID string, p pagination.Params) (*pagination.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	entries, total, err := s.auditRepo.ByActor(actorID, p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := pagination.NewResult(entries, total, p)
	return &result, nil
}
