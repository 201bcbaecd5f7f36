package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/noor/internal/models"
)

func TestMergeDocument(t *testing.T) {
	dst := map[string]any{
		"profile": map[string]any{"name": "Aisha", "age": 8.0, "nickname": "Aishu"},
		"badges":  []any{"Fasting Hero", "Qiyam Star"},
		"extra":   "kept",
	}
	src := map[string]any{
		"profile": map[string]any{"age": 9.0},
		"badges":  []any{"Fasting Hero"},
	}

	got := MergeDocument(dst, src)

	profile := got["profile"].(map[string]any)
	assert.Equal(t, "Aisha", profile["name"])
	assert.Equal(t, 9.0, profile["age"])
	assert.Equal(t, "Aishu", profile["nickname"])
	assert.Equal(t, []any{"Fasting Hero"}, got["badges"], "arrays are replaced")
	assert.Equal(t, "kept", got["extra"])
}

func TestMergeDocumentNilDst(t *testing.T) {
	got := MergeDocument(nil, map[string]any{"a": 1})
	assert.Equal(t, map[string]any{"a": 1}, got)
}

func TestMergeUserKeepsFieldsWrittenElsewhere(t *testing.T) {
	stored := `{
		"profile": {"id": "1", "name": "Aisha", "age": 8, "school": "Al-Noor"},
		"progress": {"3": {"dayNumber": 3, "fasted": "full", "quranPages": 4}},
		"badges": ["Fasting Hero"]
	}`

	u := models.NewUserRecord(models.Profile{ID: "1", Name: "Aisha", Age: 8, CurrentDay: 4})
	u.Progress[4] = models.ProgressRecord{DayNumber: 4, Fasted: models.FastHalf}
	u.Badges = []models.BadgeID{"Fasting Hero", "Punctual Prayer"}

	data, err := MergeUser([]byte(stored), u)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Al-Noor", doc["profile"].(map[string]any)["school"])

	back, err := DecodeUser(data)
	require.NoError(t, err)
	assert.Equal(t, models.FastFull, back.Progress[3].Fasted, "day absent from the push is preserved")
	assert.Equal(t, models.FastHalf, back.Progress[4].Fasted)
	assert.Equal(t, 4, back.Profile.CurrentDay)
	assert.Equal(t, []models.BadgeID{"Fasting Hero", "Punctual Prayer"}, back.Badges)
}

func TestMergeUserEmptyExisting(t *testing.T) {
	u := models.NewUserRecord(models.Profile{ID: "1", Name: "Omar"})
	data, err := MergeUser(nil, u)
	require.NoError(t, err)

	back, err := DecodeUser(data)
	require.NoError(t, err)
	assert.Equal(t, "Omar", back.Profile.Name)
}

func TestMergeStoredKeepsAbsentKeys(t *testing.T) {
	stored, err := MergeUser(nil, models.NewUserRecord(models.Profile{ID: "a", Name: "Aisha", Age: 8, CurrentDay: 3, Passcode: "1234"}))
	require.NoError(t, err)

	data, err := MergeStored(stored, map[string]any{"profile": map[string]any{"name": "Aisha B"}})
	require.NoError(t, err)

	back, err := DecodeUser(data)
	require.NoError(t, err)
	assert.Equal(t, "Aisha B", back.Profile.Name)
	assert.Equal(t, 8, back.Profile.Age)
	assert.Equal(t, "1234", back.Profile.Passcode)
	assert.Equal(t, 3, back.Profile.CurrentDay)
}

func TestStateRoundTrip(t *testing.T) {
	st := models.EmptyState()
	st.Users["1"] = models.NewUserRecord(models.Profile{ID: "1", Name: "Aisha"})
	st.ActiveUserID = "1"

	data, err := EncodeState(st)
	require.NoError(t, err)
	back, err := DecodeState(data)
	require.NoError(t, err)

	assert.Equal(t, "1", back.ActiveUserID)
	assert.Equal(t, "Aisha", back.Users["1"].Profile.Name)
}
