package diseases_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fowltyphoid/fowlmon/diseases"
	interrors "github.com/fowltyphoid/fowlmon/internal/errors"
	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	url string
}

func (c testConfig) GetSupabaseURL() string        { return c.url }
func (c testConfig) GetAnonKey() string            { return "anon-key" }
func (c testConfig) GetHTTPTimeout() time.Duration { return 5 * time.Second }

func newTestService(t *testing.T, handler http.HandlerFunc) *diseases.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return diseases.NewService(supabase.NewRESTClient(testConfig{url: srv.URL}, nil))
}

func TestList(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/rest/v1/disease_info", r.URL.Path)
		io.WriteString(w, `[
			{"disease_id": 1, "name": "Fowl Typhoid", "symptoms": "kuhara manjano", "treatment": "antibiotics"},
			{"disease_id": 2, "name": "Newcastle", "symptoms": "kupinda shingo"}
		]`)
	})

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Fowl Typhoid", rows[0].Name)
}

func TestGetByID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "eq.1", r.URL.Query().Get("disease_id"))
		io.WriteString(w, `[{"disease_id": 1, "name": "Fowl Typhoid", "causes": "Salmonella Gallinarum", "prevention": "chanjo ya 9R"}]`)
	})

	info, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Salmonella Gallinarum", info.Causes)
	require.Equal(t, "chanjo ya 9R", info.Prevention)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	_, err := svc.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, interrors.ErrNotFound)
}

func TestCreate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var got diseases.DiseaseInfo
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		require.Equal(t, "Fowl Typhoid", got.Name)

		id := int64(1)
		got.DiseaseID = &id
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode([]diseases.DiseaseInfo{got}))
	})

	created, err := svc.Create(context.Background(), &diseases.DiseaseInfo{
		Name:      "Fowl Typhoid",
		Causes:    "Salmonella Gallinarum",
		Symptoms:  "kuhara manjano",
		Treatment: "antibiotics",
	})
	require.NoError(t, err)
	require.NotNil(t, created.DiseaseID)
	require.Equal(t, int64(1), *created.DiseaseID)
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "eq.1", r.URL.Query().Get("disease_id"))
		io.WriteString(w, `[{"disease_id": 1, "name": "Fowl Typhoid", "treatment": "furazolidone"}]`)
	})

	updated, err := svc.Update(context.Background(), 1, &diseases.DiseaseInfo{Name: "Fowl Typhoid", Treatment: "furazolidone"})
	require.NoError(t, err)
	require.Equal(t, "furazolidone", updated.Treatment)
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	_, err := svc.Update(context.Background(), 99, &diseases.DiseaseInfo{Name: "x"})
	require.ErrorIs(t, err, interrors.ErrNotFound)
}
