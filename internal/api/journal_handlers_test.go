package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalapp/journal-server/internal/domain"
	domainerrors "github.com/journalapp/journal-server/internal/errors"
)

func TestCreateJournal(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")

	resp := ts.api.Post("/api/v1/journals", bearer(token), map[string]any{
		"journal_name": "Work log",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	journal := decodeEnvelope[*domain.JournalDetail](t, resp.Body.Bytes()).Data
	require.NotNil(t, journal.Name)
	assert.Equal(t, "Work log", *journal.Name)

	names := make([]string, 0, len(journal.Tables))
	for _, table := range journal.Tables {
		names = append(names, table.Name)
	}
	assert.Equal(t, domain.DefaultTableNames, names)
	require.NotNil(t, journal.CurrentTable)
	assert.Equal(t, journal.Tables[0].ID, *journal.CurrentTable)
}

func TestUpdateJournal_CurrentTableFallsBack(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")
	journal := ts.defaultJournal(t, token)

	second := journal.Tables[1].ID
	resp := ts.api.Patch(path("/api/v1/journals/%d", journal.ID), bearer(token), map[string]any{
		"current_table": second,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decodeEnvelope[*domain.JournalDetail](t, resp.Body.Bytes()).Data
	require.NotNil(t, updated.CurrentTable)
	assert.Equal(t, second, *updated.CurrentTable)

	// An id that is not one of this journal's tables resolves to the first table.
	resp = ts.api.Put(path("/api/v1/journals/%d", journal.ID), bearer(token), map[string]any{
		"current_table": 999999,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated = decodeEnvelope[*domain.JournalDetail](t, resp.Body.Bytes()).Data
	require.NotNil(t, updated.CurrentTable)
	assert.Equal(t, journal.Tables[0].ID, *updated.CurrentTable)
}

func TestGetJournal_OtherUsersJournalIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	adaToken, _ := ts.signup(t, "ada@example.com", "Ada")
	bobToken, _ := ts.signup(t, "bob@example.com", "Bob")
	journal := ts.defaultJournal(t, adaToken)

	resp := ts.api.Get(path("/api/v1/journals/%d", journal.ID), bearer(bobToken))
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope[any](t, resp.Body.Bytes()).Code)
}

func TestJournalTables_CreateDuplicateAndDelete(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")
	journal := ts.defaultJournal(t, token)
	daily := journal.Tables[1]

	ts.createActivity(t, token, daily.ID, "Morning run")
	ts.createActivity(t, token, daily.ID, "Standup")

	// Unnamed table gets the default name.
	resp := ts.api.Post("/api/v1/journal-tables", bearer(token), map[string]any{"journal": journal.ID})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeEnvelope[*domain.JournalTableDetail](t, resp.Body.Bytes()).Data
	assert.Equal(t, domain.DefaultTableName, created.Name)
	assert.Empty(t, created.Activities)

	// Duplicating copies the activities in display order.
	resp = ts.api.Post("/api/v1/journal-tables", bearer(token), map[string]any{
		"journal":       journal.ID,
		"duplicate":     true,
		"journal_table": daily.ID,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	dup := decodeEnvelope[*domain.JournalTableDetail](t, resp.Body.Bytes()).Data
	assert.Equal(t, "Daily entries (1)", dup.Name)
	require.Len(t, dup.Activities, 2)
	assert.Equal(t, "Morning run", dup.Activities[0].Name)
	assert.Equal(t, "Standup", dup.Activities[1].Name)

	resp = ts.api.Get(path("/api/v1/journal-tables/%d", daily.ID), bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeEnvelope[*domain.JournalTableDetail](t, resp.Body.Bytes()).Data.Activities, 2)

	resp = ts.api.Delete(path("/api/v1/journal-tables/%d", dup.ID), bearer(token))
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get(path("/api/v1/journal-tables/%d", dup.ID), bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteJournalTable_CurrentFallsBackAndLastIsDenied(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")
	journal := ts.defaultJournal(t, token)

	// Deleting the current table moves current_table to the first remaining one.
	resp := ts.api.Delete(path("/api/v1/journal-tables/%d", journal.Tables[0].ID), bearer(token))
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get(path("/api/v1/journals/%d", journal.ID), bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	after := decodeEnvelope[*domain.JournalDetail](t, resp.Body.Bytes()).Data
	require.NotNil(t, after.CurrentTable)
	assert.Equal(t, journal.Tables[1].ID, *after.CurrentTable)

	resp = ts.api.Delete(path("/api/v1/journal-tables/%d", journal.Tables[1].ID), bearer(token))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete(path("/api/v1/journal-tables/%d", journal.Tables[2].ID), bearer(token))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.Equal(t, "REQUEST_DENIED", env.Code)
	assert.Equal(t, domainerrors.MsgLastTable, env.Error)
}

func TestListJournalTables(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")
	ts.signup(t, "bob@example.com", "Bob")

	resp := ts.api.Get("/api/v1/journal-tables", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeEnvelope[[]*domain.JournalTable](t, resp.Body.Bytes()).Data, 3)
}

func TestUpdateJournalTable_CannotMoveTables(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "ada@example.com", "Ada")
	src := ts.defaultJournal(t, token)

	resp := ts.api.Post("/api/v1/journals", bearer(token), map[string]any{"journal_name": "Other"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	dst := decodeEnvelope[*domain.JournalDetail](t, resp.Body.Bytes()).Data

	for _, table := range src.Tables {
		resp = ts.api.Patch(path("/api/v1/journal-tables/%d", table.ID), bearer(token), map[string]any{
			"journal": dst.ID,
		})
		assert.NotEqual(t, http.StatusInternalServerError, resp.Code, resp.Body.String())
	}

	resp = ts.api.Get(path("/api/v1/journals/%d", src.ID), bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	after := decodeEnvelope[*domain.JournalDetail](t, resp.Body.Bytes()).Data
	require.Len(t, after.Tables, len(src.Tables))
	require.NotNil(t, after.CurrentTable)
	assert.Equal(t, src.Tables[0].ID, *after.CurrentTable)

	resp = ts.api.Get(path("/api/v1/journals/%d", dst.ID), bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeEnvelope[*domain.JournalDetail](t, resp.Body.Bytes()).Data.Tables, len(dst.Tables))
}
