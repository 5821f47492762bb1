package diseases

import (
	"context"
	"strconv"

	interrors "github.com/fowltyphoid/fowlmon/internal/errors"
	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const table = "disease_info"

// DiseaseInfo is a row in the disease_info table: reference material on a
// poultry disease shown to farmers and maintained by vets.
type DiseaseInfo struct {
	DiseaseID   *int64 `json:"disease_id,omitempty"`
	Name        string `json:"name"`
	Causes      string `json:"causes,omitempty"`
	Symptoms    string `json:"symptoms,omitempty"`
	Treatment   string `json:"treatment,omitempty"`
	Prevention  string `json:"prevention,omitempty"`
	Description string `json:"description,omitempty"`
}

// Service manages disease reference entries through PostgREST.
type Service struct {
	rest   *supabase.RESTClient
	logger zerolog.Logger
}

func NewService(rest *supabase.RESTClient) *Service {
	return &Service{
		rest:   rest,
		logger: log.With().Str("component", "diseases").Logger(),
	}
}

// List returns every disease entry.
func (s *Service) List(ctx context.Context) ([]DiseaseInfo, error) {
	var rows []DiseaseInfo
	if err := s.rest.Select(ctx, table, nil, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.List] Select")
	}
	return rows, nil
}

// GetByID returns one disease entry, or ErrNotFound when no row matches.
func (s *Service) GetByID(ctx context.Context, diseaseID int64) (*DiseaseInfo, error) {
	var rows []DiseaseInfo
	filters := supabase.Filters{"disease_id": supabase.Eq(strconv.FormatInt(diseaseID, 10))}
	if err := s.rest.Select(ctx, table, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.GetByID] Select")
	}
	if len(rows) == 0 {
		return nil, interrors.ErrNotFound
	}
	return &rows[0], nil
}

// Create adds a disease entry and returns the stored representation.
func (s *Service) Create(ctx context.Context, info *DiseaseInfo) (*DiseaseInfo, error) {
	var rows []DiseaseInfo
	if err := s.rest.Insert(ctx, table, info, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.Create] Insert")
	}
	if len(rows) == 0 {
		return info, nil
	}
	s.logger.Info().Str("name", info.Name).Msg("disease entry created")
	return &rows[0], nil
}

// Update patches the entry identified by diseaseID.
func (s *Service) Update(ctx context.Context, diseaseID int64, info *DiseaseInfo) (*DiseaseInfo, error) {
	var rows []DiseaseInfo
	filters := supabase.Filters{"disease_id": supabase.Eq(strconv.FormatInt(diseaseID, 10))}
	if err := s.rest.Update(ctx, table, filters, info, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.Update] Update")
	}
	if len(rows) == 0 {
		return nil, interrors.ErrNotFound
	}
	return &rows[0], nil
}
