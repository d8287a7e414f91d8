package organization

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/minicrm/backend/internal/auth"
	"github.com/minicrm/backend/internal/domain"
)

// orgRepo defines the organization repository interface needed by the service.
type orgRepo interface {
	Upsert(ctx context.Context, o *domain.Organization) (*domain.Organization, error)
	GetByClientID(ctx context.Context, clientID uuid.UUID) (*domain.Organization, error)
	Delete(ctx context.Context, clientID uuid.UUID) error
}

// clientRepo verifies the target client exists before attaching requisites.
type clientRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
}

// Service manages the billing requisites attached to clients.
type Service struct {
	log     *slog.Logger
	orgs    orgRepo
	clients clientRepo
}

// NewService creates a new organization service instance.
func NewService(logger *slog.Logger, orgs orgRepo, clients clientRepo) *Service {
	return &Service{
		log:     logger.With("service", "organization"),
		orgs:    orgs,
		clients: clients,
	}
}

// UpsertInput holds the organization requisites to store for a client.
type UpsertInput struct {
	Name                 string
	INN                  *string
	KPP                  *string
	OGRN                 *string
	Address              *string
	SettlementAccount    *string
	BIK                  *string
	CorrespondentAccount *string
	Bank                 *string
	Director             *string
	Contract             *string
}

// Validate validates the upsert input.
func (i UpsertInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 500 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	if i.INN != nil {
		if n := len(*i.INN); n != 10 && n != 12 {
			errs = append(errs, domain.FieldError{Field: "inn", Message: "must be 10 or 12 digits"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Upsert stores or replaces the organization requisites of a client.
func (s *Service) Upsert(ctx context.Context, p domain.Principal, clientID uuid.UUID, input UpsertInput) (*domain.Organization, error) {
	if err := auth.Authorize(p, auth.CapManageOrganizations); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, fmt.Errorf("organization.Upsert get client: %w", err)
	}

	org, err := s.orgs.Upsert(ctx, &domain.Organization{
		ClientID:             clientID,
		Name:                 strings.TrimSpace(input.Name),
		INN:                  input.INN,
		KPP:                  input.KPP,
		OGRN:                 input.OGRN,
		Address:              input.Address,
		SettlementAccount:    input.SettlementAccount,
		BIK:                  input.BIK,
		CorrespondentAccount: input.CorrespondentAccount,
		Bank:                 input.Bank,
		Director:             input.Director,
		Contract:             input.Contract,
	})
	if err != nil {
		return nil, fmt.Errorf("organization.Upsert: %w", err)
	}

	s.log.InfoContext(ctx, "organization stored",
		slog.String("client_id", clientID.String()),
		slog.String("organization_id", org.ID.String()))
	return org, nil
}

// Get returns the organization attached to a client.
func (s *Service) Get(ctx context.Context, p domain.Principal, clientID uuid.UUID) (*domain.Organization, error) {
	if err := auth.Authorize(p, auth.CapManageOrganizations); err != nil {
		return nil, err
	}

	org, err := s.orgs.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("organization.Get: %w", err)
	}
	return org, nil
}

// Delete removes the organization attached to a client.
func (s *Service) Delete(ctx context.Context, p domain.Principal, clientID uuid.UUID) error {
	if err := auth.Authorize(p, auth.CapManageOrganizations); err != nil {
		return err
	}

	if err := s.orgs.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("organization.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "organization removed",
		slog.String("client_id", clientID.String()))
	return nil
}
