package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/journalapp/journal-server/internal/errors"
)

func TestJournalService_CreateJournal_Defaults(t *testing.T) {
	env := setupTestServices(t)
	user := env.newUser(t, "journal@example.com", false)

	journal := env.newJournal(t, user.ID)

	names := []string{journal.Tables[0].Name, journal.Tables[1].Name, journal.Tables[2].Name}
	assert.Equal(t, []string{"All entries", "Daily entries", "Personal entries"}, names)
	require.NotNil(t, journal.CurrentTable)
	assert.Equal(t, journal.Tables[0].ID, *journal.CurrentTable)
	assert.NotNil(t, journal.Tags)
}

func TestJournalService_UpdateJournal_ResolvesCurrentTable(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	user := env.newUser(t, "resolve@example.com", false)
	journal := env.newJournal(t, user.ID)
	other := env.newJournal(t, user.ID)

	updated, err := env.journals.UpdateJournal(ctx, user.ID, journal.ID, JournalInput{
		Name:         ptr("Renamed"),
		CurrentTable: ptr(journal.Tables[2].ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", *updated.Name)
	assert.Equal(t, journal.Tables[2].ID, *updated.CurrentTable)

	// A table of another journal falls back to the first table.
	updated, err = env.journals.UpdateJournal(ctx, user.ID, journal.ID, JournalInput{CurrentTable: ptr(other.Tables[1].ID)})
	require.NoError(t, err)
	assert.Equal(t, journal.Tables[0].ID, *updated.CurrentTable)
	assert.Equal(t, "Renamed", *updated.Name)

	stranger := env.newUser(t, "stranger@example.com", false)
	_, err = env.journals.GetJournal(ctx, stranger.ID, journal.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestJournalTableService_CreateTable_Names(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	user := env.newUser(t, "names@example.com", false)
	journal := env.newJournal(t, user.ID)

	var got []string
	for range 3 {
		table, err := env.tables.CreateTable(ctx, user.ID, CreateTableRequest{Journal: journal.ID})
		require.NoError(t, err)
		got = append(got, table.Name)
	}
	assert.Equal(t, []string{"Table", "Table (1)", "Table (2)"}, got)

	named, err := env.tables.CreateTable(ctx, user.ID, CreateTableRequest{Journal: journal.ID, TableName: ptr("Travel")})
	require.NoError(t, err)
	assert.Equal(t, "Travel", named.Name)

	stranger := env.newUser(t, "stranger@example.com", false)
	_, err = env.tables.CreateTable(ctx, stranger.ID, CreateTableRequest{Journal: journal.ID})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestJournalTableService_CreateTable_Duplicate(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	user := env.newUser(t, "dup@example.com", false)
	journal := env.newJournal(t, user.ID)
	src := journal.Tables[1]
	env.newActivity(t, user.ID, src.ID, "Run")
	env.newActivity(t, user.ID, src.ID, "Read")

	first, err := env.tables.CreateTable(ctx, user.ID, CreateTableRequest{Journal: journal.ID, Duplicate: true, SourceID: &src.ID})
	require.NoError(t, err)
	assert.Equal(t, "Daily entries (1)", first.Name)
	require.Len(t, first.Activities, 2)
	assert.Equal(t, "Run", first.Activities[0].Name)
	assert.Equal(t, "Read", first.Activities[1].Name)

	second, err := env.tables.CreateTable(ctx, user.ID, CreateTableRequest{Journal: journal.ID, Duplicate: true, SourceID: &src.ID})
	require.NoError(t, err)
	assert.Equal(t, "Daily entries (2)", second.Name)

	_, err = env.tables.CreateTable(ctx, user.ID, CreateTableRequest{Journal: journal.ID, Duplicate: true})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestJournalTableService_DeleteTable(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	user := env.newUser(t, "delete@example.com", false)
	journal := env.newJournal(t, user.ID)

	// Deleting the current table moves current_table to the first remaining one.
	require.NoError(t, env.tables.DeleteTable(ctx, user.ID, journal.Tables[0].ID))
	detail, err := env.journals.GetJournal(ctx, user.ID, journal.ID)
	require.NoError(t, err)
	assert.Equal(t, journal.Tables[1].ID, *detail.CurrentTable)

	// Deleting a table that is not current leaves current_table alone.
	require.NoError(t, env.tables.DeleteTable(ctx, user.ID, journal.Tables[2].ID))
	detail, err = env.journals.GetJournal(ctx, user.ID, journal.ID)
	require.NoError(t, err)
	assert.Equal(t, journal.Tables[1].ID, *detail.CurrentTable)

	err = env.tables.DeleteTable(ctx, user.ID, journal.Tables[1].ID)
	require.ErrorIs(t, err, domainerrors.ErrRequestDenied)
	assert.Equal(t, domainerrors.MsgLastTable, err.Error())

	_, err = env.tables.GetTable(ctx, user.ID, journal.Tables[1].ID)
	assert.NoError(t, err)
}

func TestJournalTableService_UpdateTable_Renames(t *testing.T) {
	env := setupTestServices(t)
	ctx := context.Background()
	user := env.newUser(t, "rename@example.com", false)
	stranger := env.newUser(t, "rename-other@example.com", false)
	journal := env.newJournal(t, user.ID)

	_, err := env.tables.UpdateTable(ctx, stranger.ID, journal.Tables[2].ID, UpdateTableRequest{TableName: ptr("Mine")})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	renamed, err := env.tables.UpdateTable(ctx, user.ID, journal.Tables[2].ID, UpdateTableRequest{TableName: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, journal.ID, renamed.JournalID)
	assert.Equal(t, "Renamed", renamed.Name)

	detail, err := env.journals.GetJournal(ctx, user.ID, journal.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Tables, 3)
}
