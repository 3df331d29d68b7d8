package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/service"
)

// registerSubEntryRoutes registers the same set of operations for every
// sub-entry kind under /api/v1/{intentions,happenings,grateful-for,action-items}.
func (s *Server) registerSubEntryRoutes() {
	for _, kind := range domain.SubEntryKinds {
		s.registerSubEntryKind(kind)
	}
}

func (s *Server) registerSubEntryKind(kind domain.SubEntryKind) {
	base := "/api/v1/" + kind.Route()
	name := kindName(kind)
	tags := []string{name}

	huma.Register(s.api, huma.Operation{
		OperationID: "list" + name,
		Method:      http.MethodGet,
		Path:        base,
		Summary:     "List " + kind.Route(),
		Description: "Returns every " + kind.Field() + " in the current user's activities",
		Tags:        tags,
		Security:    bearerAuth,
	}, func(ctx context.Context, _ *struct{}) (*ListSubEntriesOutput, error) {
		return s.handleListSubEntries(ctx, kind)
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "create" + name,
		Method:        http.MethodPost,
		Path:          base,
		Summary:       "Create " + kind.Field(),
		Description:   "Adds a " + kind.Field() + " to an activity. Without ordering it goes last.",
		Tags:          tags,
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateSubEntryInput) (*SubEntryOutput, error) {
		return s.handleCreateSubEntry(ctx, kind, input)
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get" + name,
		Method:      http.MethodGet,
		Path:        base + "/{id}",
		Summary:     "Get " + kind.Field(),
		Tags:        tags,
		Security:    bearerAuth,
	}, func(ctx context.Context, input *IDPathInput) (*SubEntryOutput, error) {
		return s.handleGetSubEntry(ctx, kind, input)
	})

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		huma.Register(s.api, huma.Operation{
			OperationID: operationID("update"+name, method),
			Method:      method,
			Path:        base + "/{id}",
			Summary:     "Update " + kind.Field(),
			Tags:        tags,
			Security:    bearerAuth,
		}, func(ctx context.Context, input *UpdateSubEntryInput) (*SubEntryOutput, error) {
			return s.handleUpdateSubEntry(ctx, kind, input)
		})
	}

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete" + name,
		Method:        http.MethodDelete,
		Path:          base + "/{id}",
		Summary:       "Delete " + kind.Field(),
		Tags:          tags,
		Security:      bearerAuth,
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *IDPathInput) (*struct{}, error) {
		return s.handleDeleteSubEntry(ctx, kind, input)
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "batchCreate" + name,
		Method:        http.MethodPost,
		Path:          base + "/batch",
		Summary:       "Create " + kind.Route(),
		Description:   "Creates every entry in items_list in one transaction",
		Tags:          tags,
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *BatchCreateSubEntriesInput) (*ListSubEntriesOutput, error) {
		return s.handleBatchCreateSubEntries(ctx, kind, input)
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "batchUpdate" + name,
		Method:      http.MethodPatch,
		Path:        base + "/batch",
		Summary:     "Update " + kind.Route(),
		Description: "Updates every entry in items_list in one transaction",
		Tags:        tags,
		Security:    bearerAuth,
	}, func(ctx context.Context, input *BatchUpdateSubEntriesInput) (*ListSubEntriesOutput, error) {
		return s.handleBatchUpdateSubEntries(ctx, kind, input)
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "batchDelete" + name,
		Method:        http.MethodDelete,
		Path:          base + "/batch",
		Summary:       "Delete " + kind.Route(),
		Description:   "Deletes the listed entries the user owns; other ids are ignored",
		Tags:          tags,
		Security:      bearerAuth,
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *BatchDeleteSubEntriesInput) (*struct{}, error) {
		return s.handleBatchDeleteSubEntries(ctx, kind, input)
	})
}

// kindName turns "grateful_for" into "GratefulFor".
func kindName(kind domain.SubEntryKind) string {
	words := strings.ReplaceAll(string(kind), "_", " ")
	return strings.ReplaceAll(cases.Title(language.English).String(words), " ", "")
}

// === DTOs ===

// CreateSubEntryInput wraps the create request for Huma.
type CreateSubEntryInput struct {
	Body service.CreateSubEntryRequest
}

// UpdateSubEntryInput wraps the update request for Huma.
type UpdateSubEntryInput struct {
	ID   int64 `path:"id" doc:"Entry ID"`
	Body service.UpdateSubEntryRequest
}

// BatchCreateSubEntriesInput wraps a batch create for Huma.
type BatchCreateSubEntriesInput struct {
	Body struct {
		ItemsList []service.CreateSubEntryRequest `json:"items_list" doc:"Entries to create"`
	}
}

// BatchUpdateSubEntriesInput wraps a batch update for Huma.
type BatchUpdateSubEntriesInput struct {
	Body struct {
		ItemsList []service.SubEntryPatch `json:"items_list" doc:"Entry updates"`
	}
}

// BatchDeleteSubEntriesInput wraps a batch delete for Huma.
type BatchDeleteSubEntriesInput struct {
	Body struct {
		ItemsList []int64 `json:"items_list" doc:"IDs of entries to delete"`
	}
}

// SubEntryOutput wraps one entry for Huma.
type SubEntryOutput struct {
	Body *domain.SubEntry
}

// ListSubEntriesOutput wraps an entry list for Huma.
type ListSubEntriesOutput struct {
	Body []*domain.SubEntry
}

// === Handlers ===

func (s *Server) handleListSubEntries(ctx context.Context, kind domain.SubEntryKind) (*ListSubEntriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.SubEntries.List(ctx, kind, userID)
	if err != nil {
		return nil, err
	}

	return &ListSubEntriesOutput{Body: orEmpty(entries)}, nil
}

func (s *Server) handleCreateSubEntry(ctx context.Context, kind domain.SubEntryKind, input *CreateSubEntryInput) (*SubEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.SubEntries.Create(ctx, kind, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &SubEntryOutput{Body: entry}, nil
}

func (s *Server) handleGetSubEntry(ctx context.Context, kind domain.SubEntryKind, input *IDPathInput) (*SubEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.SubEntries.Get(ctx, kind, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &SubEntryOutput{Body: entry}, nil
}

func (s *Server) handleUpdateSubEntry(ctx context.Context, kind domain.SubEntryKind, input *UpdateSubEntryInput) (*SubEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.SubEntries.Update(ctx, kind, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &SubEntryOutput{Body: entry}, nil
}

func (s *Server) handleDeleteSubEntry(ctx context.Context, kind domain.SubEntryKind, input *IDPathInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.SubEntries.Delete(ctx, kind, userID, input.ID); err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *Server) handleBatchCreateSubEntries(ctx context.Context, kind domain.SubEntryKind, input *BatchCreateSubEntriesInput) (*ListSubEntriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.SubEntries.BatchCreate(ctx, kind, userID, input.Body.ItemsList)
	if err != nil {
		return nil, err
	}

	return &ListSubEntriesOutput{Body: orEmpty(entries)}, nil
}

func (s *Server) handleBatchUpdateSubEntries(ctx context.Context, kind domain.SubEntryKind, input *BatchUpdateSubEntriesInput) (*ListSubEntriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.SubEntries.BatchUpdate(ctx, kind, userID, input.Body.ItemsList)
	if err != nil {
		return nil, err
	}

	return &ListSubEntriesOutput{Body: orEmpty(entries)}, nil
}

func (s *Server) handleBatchDeleteSubEntries(ctx context.Context, kind domain.SubEntryKind, input *BatchDeleteSubEntriesInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.services.SubEntries.BatchDelete(ctx, kind, userID, input.Body.ItemsList); err != nil {
		return nil, err
	}

	return nil, nil
}
