package reports

import (
	"context"
	"time"

	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const table = "symptoms_reports"

// Report statuses as stored in the backend.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusResolved = "resolved"
)

// SymptomsReport is a row in the symptoms_reports table: a farmer's
// description of observed symptoms awaiting veterinary review.
type SymptomsReport struct {
	ReportID    *int64    `json:"report_id,omitempty"`
	FarmerID    string    `json:"farmer_id"`
	Symptoms    string    `json:"symptoms"`
	Status      string    `json:"status,omitempty"`
	SubmittedAt time.Time `json:"submitted_at,omitempty"`
}

// Service manages symptom reports through PostgREST.
type Service struct {
	rest    *supabase.RESTClient
	nowTime func() time.Time
	logger  zerolog.Logger
}

func NewService(rest *supabase.RESTClient) *Service {
	return &Service{
		rest:    rest,
		nowTime: time.Now,
		logger:  log.With().Str("component", "reports").Logger(),
	}
}

// List returns all reports visible to the caller.
func (s *Service) List(ctx context.Context) ([]SymptomsReport, error) {
	var rows []SymptomsReport
	if err := s.rest.Select(ctx, table, nil, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.List] Select")
	}
	return rows, nil
}

// ListByFarmer returns the reports submitted by one farmer.
func (s *Service) ListByFarmer(ctx context.Context, farmerID string) ([]SymptomsReport, error) {
	var rows []SymptomsReport
	filters := supabase.Filters{"farmer_id": supabase.Eq(farmerID)}
	if err := s.rest.Select(ctx, table, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.ListByFarmer] Select")
	}
	return rows, nil
}

// ListByStatus returns reports in a given status.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]SymptomsReport, error) {
	var rows []SymptomsReport
	filters := supabase.Filters{"status": supabase.Eq(status)}
	if err := s.rest.Select(ctx, table, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.ListByStatus] Select")
	}
	return rows, nil
}

// Submit creates a pending report for the farmer.
func (s *Service) Submit(ctx context.Context, farmerID, symptoms string) (*SymptomsReport, error) {
	report := &SymptomsReport{
		FarmerID:    farmerID,
		Symptoms:    symptoms,
		Status:      StatusPending,
		SubmittedAt: s.nowTime().UTC(),
	}

	var rows []SymptomsReport
	if err := s.rest.Insert(ctx, table, report, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.Submit] Insert")
	}
	if len(rows) == 0 {
		return report, nil
	}
	s.logger.Info().Str("farmer_id", farmerID).Msg("symptom report submitted")
	return &rows[0], nil
}

// UpdateStatus moves a report to a new status (vet review workflow).
func (s *Service) UpdateStatus(ctx context.Context, reportID int64, status string) error {
	filters := supabase.Filters{"report_id": supabase.Eq(formatID(reportID))}
	body := map[string]string{"status": status}
	if err := s.rest.Update(ctx, table, filters, body, nil); err != nil {
		return errors.Wrap(err, "[Service.UpdateStatus] Update")
	}
	return nil
}

// Delete removes a report.
func (s *Service) Delete(ctx context.Context, reportID int64) error {
	filters := supabase.Filters{"report_id": supabase.Eq(formatID(reportID))}
	if err := s.rest.Delete(ctx, table, filters); err != nil {
		return errors.Wrap(err, "[Service.Delete] Delete")
	}
	return nil
}
