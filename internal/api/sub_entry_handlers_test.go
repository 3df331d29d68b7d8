package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionItems_CreateAndCheck(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")
	table := ts.defaultJournal(t, token).Tables[0]
	activity := ts.createActivity(t, token, table.ID, "Errands")

	resp := ts.api.Post("/api/v1/action-items", bearer(token), map[string]any{
		"activity":    activity.ID,
		"action_item": "Buy stamps",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	item := decodeEnvelope[map[string]any](t, resp.Body.Bytes()).Data
	assert.Equal(t, "Buy stamps", item["action_item"])
	assert.Equal(t, false, item["checked"])
	assert.EqualValues(t, activity.ID, item["activity"])
	id := entryID(t, item)

	resp = ts.api.Patch(path("/api/v1/action-items/%d", id), bearer(token), map[string]any{"checked": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, true, decodeEnvelope[map[string]any](t, resp.Body.Bytes()).Data["checked"])

	resp = ts.api.Get("/api/v1/action-items", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeEnvelope[[]map[string]any](t, resp.Body.Bytes()).Data, 2, "provisioned entry plus the new one")
}

func TestSubEntries_TextFieldIsRequired(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")
	table := ts.defaultJournal(t, token).Tables[0]
	activity := ts.createActivity(t, token, table.ID, "Errands")

	resp := ts.api.Post("/api/v1/intentions", bearer(token), map[string]any{
		"activity":  activity.ID,
		"happening": "wrong field",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope[any](t, resp.Body.Bytes()).Code)

	// An empty string is allowed.
	resp = ts.api.Post("/api/v1/intentions", bearer(token), map[string]any{
		"activity":  activity.ID,
		"intention": "",
	})
	assert.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
}

func TestSubEntries_CheckedOnlyForActionItems(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")
	table := ts.defaultJournal(t, token).Tables[0]
	activity := ts.createActivity(t, token, table.ID, "Errands")

	resp := ts.api.Get(path("/api/v1/activities/%d", activity.ID), bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	happening := decodeEnvelope[activityJSON](t, resp.Body.Bytes()).Data.Happenings[0]

	resp = ts.api.Patch(path("/api/v1/happenings/%d", entryID(t, happening)), bearer(token), map[string]any{"checked": true})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSubEntries_OtherUsersEntriesAreNotFound(t *testing.T) {
	ts := setupTestServer(t)
	adaToken, _ := ts.signup(t, "ada@example.com", "Ada")
	bobToken, _ := ts.signup(t, "bob@example.com", "Bob")
	table := ts.defaultJournal(t, adaToken).Tables[0]
	activity := ts.createActivity(t, adaToken, table.ID, "Private")

	resp := ts.api.Get(path("/api/v1/activities/%d", activity.ID), bearer(adaToken))
	gratitude := decodeEnvelope[activityJSON](t, resp.Body.Bytes()).Data.GratefulFor[0]
	id := entryID(t, gratitude)

	resp = ts.api.Get(path("/api/v1/grateful-for/%d", id), bearer(bobToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = ts.api.Delete(path("/api/v1/grateful-for/%d", id), bearer(bobToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Post("/api/v1/grateful-for", bearer(bobToken), map[string]any{
		"activity":     activity.ID,
		"grateful_for": "sneaky",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSubEntries_Batch(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")
	table := ts.defaultJournal(t, token).Tables[0]
	activity := ts.createActivity(t, token, table.ID, "Retro")

	resp := ts.api.Post("/api/v1/happenings/batch", bearer(token), map[string]any{
		"items_list": []map[string]any{
			{"activity": activity.ID, "happening": "Shipped"},
			{"activity": activity.ID, "happening": "Celebrated"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeEnvelope[[]map[string]any](t, resp.Body.Bytes()).Data
	require.Len(t, created, 2)
	first, second := entryID(t, created[0]), entryID(t, created[1])

	// A batch naming an activity the user does not own is rejected whole.
	resp = ts.api.Post("/api/v1/happenings/batch", bearer(token), map[string]any{
		"items_list": []map[string]any{
			{"activity": activity.ID, "happening": "Fine"},
			{"activity": 999999, "happening": "Missing"},
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Patch("/api/v1/happenings/batch", bearer(token), map[string]any{
		"items_list": []map[string]any{
			{"id": first, "happening": "Shipped v2"},
			{"id": second, "happening": "Celebrated twice"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decodeEnvelope[[]map[string]any](t, resp.Body.Bytes()).Data
	require.Len(t, updated, 2)
	assert.Equal(t, "Shipped v2", updated[0]["happening"])

	resp = ts.api.Delete("/api/v1/happenings/batch", bearer(token), map[string]any{
		"items_list": []int64{first, second},
	})
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get(path("/api/v1/activities/%d", activity.ID), bearer(token))
	assert.Len(t, decodeEnvelope[activityJSON](t, resp.Body.Bytes()).Data.Happenings, 1)
}

func TestSubEntries_OpenAPIUsesKindFields(t *testing.T) {
	ts := setupTestServer(t)

	schema, ok := ts.API().OpenAPI().Components.Schemas.Map()["SubEntry"]
	require.True(t, ok, "SubEntry schema is registered")
	require.Len(t, schema.OneOf, 4)
	assert.Contains(t, schema.OneOf[3].Properties, "action_item")
	assert.Contains(t, schema.OneOf[3].Properties, "checked")
	assert.NotContains(t, schema.OneOf[0].Properties, "checked")
}
