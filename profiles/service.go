package profiles

import (
	"context"

	interrors "github.com/fowltyphoid/fowlmon/internal/errors"
	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	farmersTable = "farmers"
	vetsTable    = "vet"
)

// Service reads and writes role-specific profile rows through PostgREST.
type Service struct {
	rest   *supabase.RESTClient
	logger zerolog.Logger
}

func NewService(rest *supabase.RESTClient) *Service {
	return &Service{
		rest:   rest,
		logger: log.With().Str("component", "profiles").Logger(),
	}
}

// GetFarmerByUserID returns the farmer row for userID, or
// ErrProfileNotFound when no row exists.
func (s *Service) GetFarmerByUserID(ctx context.Context, userID string) (*Farmer, error) {
	var rows []Farmer
	filters := supabase.Filters{"user_id": supabase.Eq(userID)}
	if err := s.rest.Select(ctx, farmersTable, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.GetFarmerByUserID] Select")
	}
	if len(rows) == 0 {
		return nil, interrors.ErrProfileNotFound
	}
	return &rows[0], nil
}

// GetVetByUserID returns the vet row for userID, or ErrProfileNotFound when
// no row exists.
func (s *Service) GetVetByUserID(ctx context.Context, userID string) (*Vet, error) {
	var rows []Vet
	filters := supabase.Filters{"user_id": supabase.Eq(userID)}
	if err := s.rest.Select(ctx, vetsTable, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.GetVetByUserID] Select")
	}
	if len(rows) == 0 {
		return nil, interrors.ErrProfileNotFound
	}
	return &rows[0], nil
}

// CreateFarmer inserts a farmer row and returns the stored representation.
func (s *Service) CreateFarmer(ctx context.Context, farmer *Farmer) (*Farmer, error) {
	var rows []Farmer
	if err := s.rest.Insert(ctx, farmersTable, farmer, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.CreateFarmer] Insert")
	}
	if len(rows) == 0 {
		return farmer, nil
	}
	return &rows[0], nil
}

// CreateVet inserts a vet row and returns the stored representation.
func (s *Service) CreateVet(ctx context.Context, vet *Vet) (*Vet, error) {
	var rows []Vet
	if err := s.rest.Insert(ctx, vetsTable, vet, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.CreateVet] Insert")
	}
	if len(rows) == 0 {
		return vet, nil
	}
	return &rows[0], nil
}

// UpdateFarmer patches the farmer row identified by userID.
func (s *Service) UpdateFarmer(ctx context.Context, userID string, farmer *Farmer) (*Farmer, error) {
	var rows []Farmer
	filters := supabase.Filters{"user_id": supabase.Eq(userID)}
	if err := s.rest.Update(ctx, farmersTable, filters, farmer, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.UpdateFarmer] Update")
	}
	if len(rows) == 0 {
		return nil, interrors.ErrProfileNotFound
	}
	return &rows[0], nil
}

// UpdateVet patches the vet row identified by userID.
func (s *Service) UpdateVet(ctx context.Context, userID string, vet *Vet) (*Vet, error) {
	var rows []Vet
	filters := supabase.Filters{"user_id": supabase.Eq(userID)}
	if err := s.rest.Update(ctx, vetsTable, filters, vet, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.UpdateVet] Update")
	}
	if len(rows) == 0 {
		return nil, interrors.ErrProfileNotFound
	}
	return &rows[0], nil
}

// ListAvailableVets returns every vet currently marked available.
func (s *Service) ListAvailableVets(ctx context.Context) ([]Vet, error) {
	var rows []Vet
	filters := supabase.Filters{"is_available": supabase.Eq("true")}
	if err := s.rest.Select(ctx, vetsTable, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.ListAvailableVets] Select")
	}
	return rows, nil
}
