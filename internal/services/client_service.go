package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"idm_backend/internal/auth"
	"idm_backend/internal/events"
	"idm_backend/internal/models"
	"idm_backend/internal/pagination"
	"idm_backend/internal/repositories"
	"idm_backend/internal/services/dto"
	"idm_backend/internal/validator"
	"idm_backend/pkg/apperrors"
)

type ClientService interface {
	All(p pagination.Params) (*pagination.Result, error)
	Create(req *dto.CreateClientRequest) (*dto.CreateClientResponse, []events.Event, error)
	FindByID(id string) (*models.OAuthClient, error)
	Update(id string, req *dto.UpdateClientRequest) (*models.OAuthClient, error)
	Revoke(id string) error

	IssuePersonalToken(user *models.User, req *dto.IssuePersonalTokenRequest) (*dto.IssuePersonalTokenResponse, error)
}

type ClientServiceConfig struct {
	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int
}

type ClientServiceImpl struct {
	clientRepo repositories.OAuthClientRepository
	validate   *validator.Validator
	cfg        ClientServiceConfig
}

func NewClientService(
	clientRepo repositories.OAuthClientRepository,
	validate *validator.Validator,
	cfg ClientServiceConfig,
) ClientService {
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = time.Hour
	}
	return &ClientServiceImpl{clientRepo: clientRepo, validate: validate, cfg: cfg}
}

func (s *ClientServiceImpl) All(p pagination.Params) (*pagination.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	clients, total, err := s.clientRepo.All(p)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := pagination.NewResult(clients, total, p)
	return &result, nil
}

func (s *ClientServiceImpl) Create(req *dto.CreateClientRequest) (*dto.CreateClientResponse, []events.Event, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, nil, asCreateError("Client", err)
	}

	secret, err := generateClientSecret()
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	secretHash, err := auth.HashPassword(secret, s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	client := &models.OAuthClient{
		Name:           req.Name,
		SecretHash:     secretHash,
		RedirectURI:    req.RedirectURI,
		PersonalAccess: req.PersonalAccess,
	}

	if err := s.clientRepo.Create(client); err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	resp := &dto.CreateClientResponse{Client: client, Secret: secret}
	return resp, []events.Event{events.ClientCreated{Client: client}}, nil
}

func (s *ClientServiceImpl) FindByID(id string) (*models.OAuthClient, error) {
	client, err := s.clientRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrClientNotFound) {
			return nil, apperrors.NotFound("Client")
		}
		return nil, apperrors.Internal(err)
	}
	return client, nil
}

func (s *ClientServiceImpl) Update(id string, req *dto.UpdateClientRequest) (*models.OAuthClient, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, asUpdateError("Client", err)
	}

	client, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.RedirectURI != nil {
		client.RedirectURI = *req.RedirectURI
	}

	if err := s.clientRepo.Update(client); err != nil {
		return nil, apperrors.Internal(err)
	}
	return client, nil
}

func (s *ClientServiceImpl) Revoke(id string) error {
	if err := s.clientRepo.Revoke(id); err != nil {
		if errors.Is(err, repositories.ErrClientNotFound) {
			return apperrors.NotFound("Client")
		}
		return apperrors.Internal(err)
	}
	return nil
}

// IssuePersonalToken mints an access token against the personal access
// client. Requested scopes must be covered by the user's own abilities.
func (s *ClientServiceImpl) IssuePersonalToken(user *models.User, req *dto.IssuePersonalTokenRequest) (*dto.IssuePersonalTokenResponse, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, asCreateError("Token", err)
	}

	client, err := s.clientRepo.FindPersonal()
	if err != nil {
		if errors.Is(err, repositories.ErrClientNotFound) {
			return nil, apperrors.NotFound("Client")
		}
		return nil, apperrors.Internal(err)
	}

	abilities := user.Abilities()
	for _, scope := range req.Scopes {
		covered := false
		for _, ability := range abilities {
			if ability == scope {
				covered = true
				break
			}
		}
		if !covered {
			return nil, apperrors.Forbidden("Requested scope exceeds user abilities: " + scope)
		}
	}

	token, err := auth.GenerateAccessToken(s.cfg.JWTSecret, user.ID, client.ID, req.Scopes, s.cfg.JWTTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &dto.IssuePersonalTokenResponse{AccessToken: token}, nil
}

func generateClientSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
