package reminders

import (
	"context"
	"strconv"
	"time"

	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const table = "reminder"

// Reminder is a row in the reminder table: a scheduled notification a vet
// sets up for vaccination or treatment follow-ups.
type Reminder struct {
	ReminderID *int64    `json:"reminder_id,omitempty"`
	VetID      string    `json:"vet_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message,omitempty"`
	RemindAt   time.Time `json:"remind_at"`
	IsSent     bool      `json:"is_sent"`
}

// Service manages reminders through PostgREST.
type Service struct {
	rest   *supabase.RESTClient
	logger zerolog.Logger
}

func NewService(rest *supabase.RESTClient) *Service {
	return &Service{
		rest:   rest,
		logger: log.With().Str("component", "reminders").Logger(),
	}
}

// List returns every reminder visible to the caller.
func (s *Service) List(ctx context.Context) ([]Reminder, error) {
	var rows []Reminder
	if err := s.rest.Select(ctx, table, nil, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.List] Select")
	}
	return rows, nil
}

// ListByVet returns the reminders created by one vet.
func (s *Service) ListByVet(ctx context.Context, vetID string) ([]Reminder, error) {
	var rows []Reminder
	filters := supabase.Filters{"vet_id": supabase.Eq(vetID)}
	if err := s.rest.Select(ctx, table, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.ListByVet] Select")
	}
	return rows, nil
}

// ListPending returns reminders not yet sent.
func (s *Service) ListPending(ctx context.Context) ([]Reminder, error) {
	var rows []Reminder
	filters := supabase.Filters{"is_sent": supabase.Eq("false")}
	if err := s.rest.Select(ctx, table, filters, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.ListPending] Select")
	}
	return rows, nil
}

// Create schedules a new reminder.
func (s *Service) Create(ctx context.Context, reminder *Reminder) (*Reminder, error) {
	var rows []Reminder
	if err := s.rest.Insert(ctx, table, reminder, &rows); err != nil {
		return nil, errors.Wrap(err, "[Service.Create] Insert")
	}
	if len(rows) == 0 {
		return reminder, nil
	}
	s.logger.Info().Str("vet_id", reminder.VetID).Str("title", reminder.Title).Msg("reminder created")
	return &rows[0], nil
}

// MarkSent flags a reminder as delivered.
func (s *Service) MarkSent(ctx context.Context, reminderID int64) error {
	filters := supabase.Filters{"reminder_id": supabase.Eq(strconv.FormatInt(reminderID, 10))}
	body := map[string]bool{"is_sent": true}
	if err := s.rest.Update(ctx, table, filters, body, nil); err != nil {
		return errors.Wrap(err, "[Service.MarkSent] Update")
	}
	return nil
}
