package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/service"
)

func (s *Server) registerJournalTableRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listJournalTables",
		Method:      http.MethodGet,
		Path:        "/api/v1/journal-tables",
		Summary:     "List tables",
		Description: "Returns every table in the current user's journals",
		Tags:        []string{"Journal tables"},
		Security:    bearerAuth,
	}, s.handleListJournalTables)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createJournalTable",
		Method:        http.MethodPost,
		Path:          "/api/v1/journal-tables",
		Summary:       "Create table",
		Description:   "Creates an empty table, or with duplicate=true a copy of journal_table including its activities",
		Tags:          []string{"Journal tables"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateJournalTable)

	huma.Register(s.api, huma.Operation{
		OperationID: "getJournalTable",
		Method:      http.MethodGet,
		Path:        "/api/v1/journal-tables/{id}",
		Summary:     "Get table",
		Description: "Returns a table with its activities in display order",
		Tags:        []string{"Journal tables"},
		Security:    bearerAuth,
	}, s.handleGetJournalTable)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		huma.Register(s.api, huma.Operation{
			OperationID: operationID("updateJournalTable", method),
			Method:      method,
			Path:        "/api/v1/journal-tables/{id}",
			Summary:     "Update table",
			Description: "Renames a table or moves it to another journal",
			Tags:        []string{"Journal tables"},
			Security:    bearerAuth,
		}, s.handleUpdateJournalTable)
	}

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteJournalTable",
		Method:        http.MethodDelete,
		Path:          "/api/v1/journal-tables/{id}",
		Summary:       "Delete table",
		Description:   "Deletes a table and its activities. The last table of a journal cannot be deleted.",
		Tags:          []string{"Journal tables"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteJournalTable)
}

// === DTOs ===

// CreateJournalTableRequest is the request body for creating a table.
type CreateJournalTableRequest struct {
	Journal      int64   `json:"journal" doc:"Journal the table belongs to"`
	TableName    *string `json:"table_name,omitempty" maxLength:"100" doc:"Table name; generated when empty"`
	Duplicate    bool    `json:"duplicate,omitempty" doc:"Copy journal_table instead of creating an empty table"`
	JournalTable *int64  `json:"journal_table,omitempty" doc:"Table to copy when duplicate is set"`
}

// CreateJournalTableInput wraps the create table request for Huma.
type CreateJournalTableInput struct {
	Body CreateJournalTableRequest
}

// UpdateJournalTableRequest is the request body for updating a table.
type UpdateJournalTableRequest struct {
	TableName *string `json:"table_name,omitempty" maxLength:"100" doc:"Table name"`
}

// UpdateJournalTableInput wraps the update table request for Huma.
type UpdateJournalTableInput struct {
	ID   int64 `path:"id" doc:"Table ID"`
	Body UpdateJournalTableRequest
}

// JournalTableOutput wraps a table with its activities for Huma.
type JournalTableOutput struct {
	Body *domain.JournalTableDetail
}

// ListJournalTablesOutput wraps the table list for Huma.
type ListJournalTablesOutput struct {
	Body []*domain.JournalTable
}

// === Handlers ===

func (s *Server) handleListJournalTables(ctx context.Context, _ *struct{}) (*ListJournalTablesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tables, err := s.services.JournalTables.ListTables(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListJournalTablesOutput{Body: orEmpty(tables)}, nil
}

func (s *Server) handleCreateJournalTable(ctx context.Context, input *CreateJournalTableInput) (*JournalTableOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	table, err := s.services.JournalTables.CreateTable(ctx, userID, service.CreateTableRequest{
		Journal:   input.Body.Journal,
		TableName: input.Body.TableName,
		Duplicate: input.Body.Duplicate,
		SourceID:  input.Body.JournalTable,
	})
	if err != nil {
		return nil, err
	}

	return &JournalTableOutput{Body: table}, nil
}

func (s *Server) handleGetJournalTable(ctx context.Context, input *IDPathInput) (*JournalTableOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	table, err := s.services.JournalTables.GetTable(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &JournalTableOutput{Body: table}, nil
}

func (s *Server) handleUpdateJournalTable(ctx context.Context, input *UpdateJournalTableInput) (*JournalTableOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	table, err := s.services.JournalTables.UpdateTable(ctx, userID, input.ID, service.UpdateTableRequest{
		TableName: input.Body.TableName,
	})
	if err != nil {
		return nil, err
	}

	return &JournalTableOutput{Body: table}, nil
}

func (s *Server) handleDeleteJournalTable(ctx context.Context, input *IDPathInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.JournalTables.DeleteTable(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return nil, nil
}
