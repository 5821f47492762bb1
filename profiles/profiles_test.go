package profiles_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	interrors "github.com/fowltyphoid/fowlmon/internal/errors"
	"github.com/fowltyphoid/fowlmon/profiles"
	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	url string
}

func (c testConfig) GetSupabaseURL() string        { return c.url }
func (c testConfig) GetAnonKey() string            { return "anon-key" }
func (c testConfig) GetHTTPTimeout() time.Duration { return 5 * time.Second }

func newTestService(t *testing.T, handler http.HandlerFunc) *profiles.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return profiles.NewService(supabase.NewRESTClient(testConfig{url: srv.URL}, nil))
}

func TestFarmerComplete(t *testing.T) {
	require.False(t, (&profiles.Farmer{}).Complete())
	require.False(t, (&profiles.Farmer{FullName: "Asha Mkude"}).Complete())
	require.False(t, (&profiles.Farmer{FarmLocation: "Morogoro"}).Complete())
	require.True(t, (&profiles.Farmer{FullName: "Asha Mkude", FarmLocation: "Morogoro"}).Complete())
}

func TestVetComplete(t *testing.T) {
	require.False(t, (&profiles.Vet{}).Complete())
	require.False(t, (&profiles.Vet{FullName: "Dkt. Juma"}).Complete())
	require.True(t, (&profiles.Vet{FullName: "Dkt. Juma", Specialization: "Poultry"}).Complete())
}

func TestGetFarmerByUserID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/farmers", r.URL.Path)
		require.Equal(t, "eq.u1", r.URL.Query().Get("user_id"))
		io.WriteString(w, `[{"farmer_id": 7, "user_id": "u1", "full_name": "Asha Mkude", "farm_location": "Morogoro"}]`)
	})

	farmer, err := svc.GetFarmerByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "Asha Mkude", farmer.FullName)
	require.True(t, farmer.Complete())
}

func TestGetFarmerByUserIDNotFound(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	_, err := svc.GetFarmerByUserID(context.Background(), "u1")
	require.ErrorIs(t, err, interrors.ErrProfileNotFound)
}

func TestGetVetByUserIDUsesVetTable(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/vet", r.URL.Path)
		io.WriteString(w, `[{"vet_id": 3, "user_id": "u2", "full_name": "Dkt. Juma", "specialization": "Poultry"}]`)
	})

	vet, err := svc.GetVetByUserID(context.Background(), "u2")
	require.NoError(t, err)
	require.Equal(t, "Poultry", vet.Specialization)
	require.True(t, vet.Complete())
}

func TestCreateFarmerReturnsRepresentation(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var got profiles.Farmer
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		id := int64(42)
		got.FarmerID = &id
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode([]profiles.Farmer{got}))
	})

	created, err := svc.CreateFarmer(context.Background(), &profiles.Farmer{UserID: "u1", FullName: "Asha Mkude"})
	require.NoError(t, err)
	require.NotNil(t, created.FarmerID)
	require.Equal(t, int64(42), *created.FarmerID)
}

func TestUpdateVetNotFound(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		io.WriteString(w, `[]`)
	})

	_, err := svc.UpdateVet(context.Background(), "u2", &profiles.Vet{Location: "Dodoma"})
	require.ErrorIs(t, err, interrors.ErrProfileNotFound)
}

func TestListAvailableVets(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "eq.true", r.URL.Query().Get("is_available"))
		io.WriteString(w, `[
			{"vet_id": 1, "full_name": "Dkt. Juma", "is_available": true},
			{"vet_id": 2, "full_name": "Dkt. Neema", "is_available": true}
		]`)
	})

	vets, err := svc.ListAvailableVets(context.Background())
	require.NoError(t, err)
	require.Len(t, vets, 2)
}
