package consult

import (
	"context"
	"strconv"
	"time"

	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const table = "consultations"

// Consultation statuses as stored in the backend.
const (
	StatusPending  = "pending"
	StatusAnswered = "answered"
	StatusClosed   = "closed"
)

// Consultation is a row in the consultations table: a farmer's question and,
// once a vet replies, the answer.
type Consultation struct {
	ConsultationID *int64    `json:"consultation_id,omitempty"`
	FarmerID       string    `json:"farmer_id"`
	VetID          string    `json:"vet_id,omitempty"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer,omitempty"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// Service manages consultations through PostgREST.
type Service struct {
	rest    *supabase.RESTClient
	nowTime func() time.Time
	logger  zerolog.Logger
}

func NewService(rest *supabase.RESTClient) *Service {
	return &Service{
		rest:    rest,
		nowTime: time.Now,
		logger:  log.With().Str("component", "consult").Logger(),
	}
}

// ListByFarmer returns the consultations a farmer has opened.
func (s *Service) ListByFarmer(ctx context.Context, farmerID string) ([]Consultation, error) {
	var rows []Consultation
	filters := supabase.Filters{"farmer_id": supabase.Eq(farmerID)}
	if err := s.rest.Select(ctx, table, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.ListByFarmer] Select")
	}
	return rows, nil
}

// ListByVet returns the consultations assigned to a vet.
func (s *Service) ListByVet(ctx context.Context, vetID string) ([]Consultation, error) {
	var rows []Consultation
	filters := supabase.Filters{"vet_id": supabase.Eq(vetID)}
	if err := s.rest.Select(ctx, table, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.ListByVet] Select")
	}
	return rows, nil
}

// ListByStatus returns consultations in a given status.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]Consultation, error) {
	var rows []Consultation
	filters := supabase.Filters{"status": supabase.Eq(status)}
	if err := s.rest.Select(ctx, table, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.ListByStatus] Select")
	}
	return rows, nil
}

// Request opens a pending consultation from a farmer.
func (s *Service) Request(ctx context.Context, farmerID, question string) (*Consultation, error) {
	c := &Consultation{
		FarmerID:  farmerID,
		Question:  question,
		Status:    StatusPending,
		CreatedAt: s.nowTime().UTC(),
	}

	var rows []Consultation
	if err := s.rest.Insert(ctx, table, c, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.Request] Insert")
	}
	if len(rows) == 0 {
		return c, nil
	}
	s.logger.Info().Str("farmer_id", farmerID).Msg("consultation requested")
	return &rows[0], nil
}

// Answer records a vet's reply and marks the consultation answered.
func (s *Service) Answer(ctx context.Context, consultationID int64, vetID, answer string) error {
	filters := supabase.Filters{"consultation_id": supabase.Eq(strconv.FormatInt(consultationID, 10))}
	body := map[string]string{
		"vet_id": vetID,
		"answer": answer,
		"status": StatusAnswered,
	}
	if err := s.rest.Update(ctx, table, filters, body, nil); err != nil {
		return errors.Wrap(err, "[Service.Answer] Update")
	}
	s.logger.Info().Int64("consultation_id", consultationID).Msg("consultation answered")
	return nil
}

// Close marks a consultation closed.
func (s *Service) Close(ctx context.Context, consultationID int64) error {
	filters := supabase.Filters{"consultation_id": supabase.Eq(strconv.FormatInt(consultationID, 10))}
	body := map[string]string{"status": StatusClosed}
	if err := s.rest.Update(ctx, table, filters, body, nil); err != nil {
		return errors.Wrap(err, "[Service.Close] Update")
	}
	return nil
}
