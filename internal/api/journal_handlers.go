package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/service"
)

func (s *Server) registerJournalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listJournals",
		Method:      http.MethodGet,
		Path:        "/api/v1/journals",
		Summary:     "List journals",
		Description: "Returns the current user's journals with their tables and visible tags",
		Tags:        []string{"Journals"},
		Security:    bearerAuth,
	}, s.handleListJournals)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createJournal",
		Method:        http.MethodPost,
		Path:          "/api/v1/journals",
		Summary:       "Create journal",
		Description:   "Creates a journal with the three default tables and copies the global tags to the user",
		Tags:          []string{"Journals"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateJournal)

	huma.Register(s.api, huma.Operation{
		OperationID: "getJournal",
		Method:      http.MethodGet,
		Path:        "/api/v1/journals/{id}",
		Summary:     "Get journal",
		Description: "Returns a journal by ID",
		Tags:        []string{"Journals"},
		Security:    bearerAuth,
	}, s.handleGetJournal)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		huma.Register(s.api, huma.Operation{
			OperationID: operationID("updateJournal", method),
			Method:      method,
			Path:        "/api/v1/journals/{id}",
			Summary:     "Update journal",
			Description: "Updates name, description, or current table. An unknown current_table falls back to the journal's first table.",
			Tags:        []string{"Journals"},
			Security:    bearerAuth,
		}, s.handleUpdateJournal)
	}
}

// === DTOs ===

// JournalRequest is the request body for creating or updating a journal.
type JournalRequest struct {
	Name         *string `json:"journal_name,omitempty" maxLength:"200" doc:"Journal name"`
	Description  *string `json:"journal_description,omitempty" maxLength:"3000" doc:"Journal description"`
	CurrentTable *int64  `json:"current_table,omitempty" doc:"ID of the table shown by default"`
}

func (r JournalRequest) toService() service.JournalInput {
	return service.JournalInput{
		Name:         r.Name,
		Description:  r.Description,
		CurrentTable: r.CurrentTable,
	}
}

// CreateJournalInput wraps the create journal request for Huma.
type CreateJournalInput struct {
	Body JournalRequest
}

// UpdateJournalInput wraps the update journal request for Huma.
type UpdateJournalInput struct {
	ID   int64 `path:"id" doc:"Journal ID"`
	Body JournalRequest
}

// JournalOutput wraps a journal for Huma.
type JournalOutput struct {
	Body *domain.JournalDetail
}

// ListJournalsOutput wraps the journal list for Huma.
type ListJournalsOutput struct {
	Body []*domain.JournalDetail
}

// === Handlers ===

func (s *Server) handleListJournals(ctx context.Context, _ *struct{}) (*ListJournalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	journals, err := s.services.Journals.ListJournals(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListJournalsOutput{Body: orEmpty(journals)}, nil
}

func (s *Server) handleCreateJournal(ctx context.Context, input *CreateJournalInput) (*JournalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	journal, err := s.services.Journals.CreateJournal(ctx, userID, input.Body.toService())
	if err != nil {
		return nil, err
	}

	return &JournalOutput{Body: journal}, nil
}

func (s *Server) handleGetJournal(ctx context.Context, input *IDPathInput) (*JournalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	journal, err := s.services.Journals.GetJournal(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &JournalOutput{Body: journal}, nil
}

func (s *Server) handleUpdateJournal(ctx context.Context, input *UpdateJournalInput) (*JournalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	journal, err := s.services.Journals.UpdateJournal(ctx, userID, input.ID, input.Body.toService())
	if err != nil {
		return nil, err
	}

	return &JournalOutput{Body: journal}, nil
}
