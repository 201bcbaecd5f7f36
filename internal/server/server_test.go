package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/noor/internal/models"
	"github.com/julianstephens/noor/internal/storage/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Remote) {
	t.Helper()
	remote := memory.NewRemote()
	ts := httptest.NewServer(New(remote, Options{AllowedOrigins: []string{"http://localhost:5173"}}).Handler())
	t.Cleanup(ts.Close)
	return ts, remote
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUserLifecycle(t *testing.T) {
	ts, remote := newTestServer(t)
	ctx := context.Background()

	u := models.NewUserRecord(models.Profile{ID: "1", Name: "Aisha", Age: 8})
	u.Progress[1] = models.ProgressRecord{DayNumber: 1, Fasted: models.FastFull}

	resp := do(t, http.MethodPut, ts.URL+"/api/users/1", u)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	stored, found, err := remote.GetUser(ctx, "1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.FastFull, stored.Progress[1].Fasted)

	resp = do(t, http.MethodGet, ts.URL+"/api/users/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.UserRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Aisha", got.Profile.Name)

	resp = do(t, http.MethodGet, ts.URL+"/api/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all map[string]models.UserRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	assert.Contains(t, all, "1")

	resp = do(t, http.MethodDelete, ts.URL+"/api/users/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/users/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutUserRejectsBadInput(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := do(t, http.MethodPut, ts.URL+"/api/users/1", models.NewUserRecord(models.Profile{ID: "2"}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/users/1", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestPutUserMergesPartialDocument(t *testing.T) {
	ts, remote := newTestServer(t)
	ctx := context.Background()

	u := models.NewUserRecord(models.Profile{ID: "a", Name: "Aisha", Age: 8, CurrentDay: 3, Passcode: "1234", Role: models.RoleUser})
	u.Progress[2] = models.ProgressRecord{DayNumber: 2, Fasted: models.FastFull, QuranPages: 4}
	u.Badges = []models.BadgeID{"Fasting Hero"}
	remote.Seed(u)

	partial := map[string]any{
		"profile":  map[string]any{"id": "a", "name": "Aisha B"},
		"progress": map[string]any{"3": map[string]any{"dayNumber": 3, "fasted": "half"}},
	}
	resp := do(t, http.MethodPut, ts.URL+"/api/users/a", partial)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, found, err := remote.GetUser(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Aisha B", got.Profile.Name)
	assert.Equal(t, 8, got.Profile.Age)
	assert.Equal(t, "1234", got.Profile.Passcode)
	assert.Equal(t, 3, got.Profile.CurrentDay)
	assert.Equal(t, models.FastFull, got.Progress[2].Fasted)
	assert.Equal(t, 4, got.Progress[2].QuranPages)
	assert.Equal(t, models.FastHalf, got.Progress[3].Fasted)
	assert.Equal(t, []models.BadgeID{"Fasting Hero"}, got.Badges)
}

func TestPutUserTakesIDFromPath(t *testing.T) {
	ts, remote := newTestServer(t)

	resp := do(t, http.MethodPut, ts.URL+"/api/users/7", map[string]any{"badges": []string{"Qiyam Star"}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, found, err := remote.GetUser(context.Background(), "7")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "7", got.Profile.ID)
	assert.Equal(t, []models.BadgeID{"Qiyam Star"}, got.Badges)

	resp = do(t, http.MethodPut, ts.URL+"/api/users/7", map[string]any{"profile": "Omar"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRemoteFailureIsBadGateway(t *testing.T) {
	ts, remote := newTestServer(t)
	remote.FailWith(errors.New("db down"))

	resp := do(t, http.MethodGet, ts.URL+"/api/users", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestParseOrigins(t *testing.T) {
	got := ParseOrigins(" http://a.test/ ,, http://b.test")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, got)
}
