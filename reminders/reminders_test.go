package reminders_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fowltyphoid/fowlmon/reminders"
	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	url string
}

func (c testConfig) GetSupabaseURL() string        { return c.url }
func (c testConfig) GetAnonKey() string            { return "anon-key" }
func (c testConfig) GetHTTPTimeout() time.Duration { return 5 * time.Second }

func newTestService(t *testing.T, handler http.HandlerFunc) *reminders.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return reminders.NewService(supabase.NewRESTClient(testConfig{url: srv.URL}, nil))
}

func TestCreate(t *testing.T) {
	remindAt := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/reminder", r.URL.Path)

		var got reminders.Reminder
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		require.Equal(t, "vet-1", got.VetID)
		require.Equal(t, remindAt, got.RemindAt)
		require.False(t, got.IsSent)

		id := int64(3)
		got.ReminderID = &id
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode([]reminders.Reminder{got}))
	})

	created, err := svc.Create(context.Background(), &reminders.Reminder{
		VetID:    "vet-1",
		Title:    "Chanjo ya 9R",
		Message:  "Kumbusha shamba la Asha",
		RemindAt: remindAt,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ReminderID)
	require.Equal(t, int64(3), *created.ReminderID)
}

func TestListPending(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "eq.false", r.URL.Query().Get("is_sent"))
		io.WriteString(w, `[{"reminder_id": 3, "vet_id": "vet-1", "title": "Chanjo ya 9R", "remind_at": "2025-07-01T09:00:00Z", "is_sent": false}]`)
	})

	rows, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.False(t, rows[0].IsSent)
}

func TestMarkSent(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "eq.3", r.URL.Query().Get("reminder_id"))

		var got map[string]bool
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		require.True(t, got["is_sent"])
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, svc.MarkSent(context.Background(), 3))
}
