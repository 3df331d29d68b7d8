package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/service"
)

func (s *Server) registerActivityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listActivities",
		Method:      http.MethodGet,
		Path:        "/api/v1/activities",
		Summary:     "List activities",
		Description: "Returns every activity the current user owns with tags and sub-entries",
		Tags:        []string{"Activities"},
		Security:    bearerAuth,
	}, s.handleListActivities)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createActivity",
		Method:        http.MethodPost,
		Path:          "/api/v1/activities",
		Summary:       "Create activity",
		Description:   "Creates an activity with one empty sub-entry of each kind. Without ordering it goes last in its table.",
		Tags:          []string{"Activities"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateActivity)

	huma.Register(s.api, huma.Operation{
		OperationID: "getActivity",
		Method:      http.MethodGet,
		Path:        "/api/v1/activities/{id}",
		Summary:     "Get activity",
		Description: "Returns an activity by ID",
		Tags:        []string{"Activities"},
		Security:    bearerAuth,
	}, s.handleGetActivity)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		huma.Register(s.api, huma.Operation{
			OperationID: operationID("updateActivity", method),
			Method:      method,
			Path:        "/api/v1/activities/{id}",
			Summary:     "Update activity",
			Description: "Updates fields, tags, ordering, and nested sub-entries of an activity in one transaction",
			Tags:        []string{"Activities"},
			Security:    bearerAuth,
		}, s.handleUpdateActivity)
	}

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteActivity",
		Method:        http.MethodDelete,
		Path:          "/api/v1/activities/{id}",
		Summary:       "Delete activity",
		Description:   "Deletes an activity and its sub-entries",
		Tags:          []string{"Activities"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteActivity)

	huma.Register(s.api, huma.Operation{
		OperationID: "batchUpdateActivityTags",
		Method:      http.MethodPatch,
		Path:        "/api/v1/activities/batch",
		Summary:     "Set tags on activities",
		Description: "Replaces the tag set of every listed activity",
		Tags:        []string{"Activities"},
		Security:    bearerAuth,
	}, s.handleBatchUpdateActivities)

	huma.Register(s.api, huma.Operation{
		OperationID:   "batchDuplicateActivities",
		Method:        http.MethodPost,
		Path:          "/api/v1/activities/batch",
		Summary:       "Duplicate activities",
		Description:   "Copies each listed activity into its own table. Each copy is independent; failures are reported per id.",
		Tags:          []string{"Activities"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleBatchDuplicateActivities)

	huma.Register(s.api, huma.Operation{
		OperationID:   "batchDeleteActivities",
		Method:        http.MethodDelete,
		Path:          "/api/v1/activities/batch",
		Summary:       "Delete activities",
		Description:   "Deletes the listed activities the user owns; other ids are ignored",
		Tags:          []string{"Activities"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusNoContent,
	}, s.handleBatchDeleteActivities)
}

// === DTOs ===

// CreateActivityInput wraps the create activity request for Huma.
type CreateActivityInput struct {
	Body service.CreateActivityRequest
}

// UpdateActivityInput wraps the update activity request for Huma.
type UpdateActivityInput struct {
	ID   int64 `path:"id" doc:"Activity ID"`
	Body service.UpdateActivityRequest
}

// BatchUpdateActivitiesInput wraps a batch tag update for Huma.
type BatchUpdateActivitiesInput struct {
	Body struct {
		ActivitiesList []service.ActivityTagsItem `json:"activities_list" doc:"Activity ids with the tags to assign"`
	}
}

// BatchDuplicateActivitiesInput wraps a batch duplicate for Huma.
type BatchDuplicateActivitiesInput struct {
	Body struct {
		DuplicateList []service.DuplicateItem `json:"duplicate_list" doc:"Activity ids to copy"`
	}
}

// BatchDeleteActivitiesInput wraps a batch delete for Huma.
type BatchDeleteActivitiesInput struct {
	Body struct {
		DeleteList []int64 `json:"delete_list" doc:"Activity ids to delete"`
	}
}

// ActivityOutput wraps an activity for Huma.
type ActivityOutput struct {
	Body *domain.Activity
}

// ListActivitiesOutput wraps an activity list for Huma.
type ListActivitiesOutput struct {
	Body []*domain.Activity
}

// DuplicateActivitiesOutput wraps a batch duplicate result for Huma.
type DuplicateActivitiesOutput struct {
	Body *service.DuplicateResult
}

// === Handlers ===

func (s *Server) handleListActivities(ctx context.Context, _ *struct{}) (*ListActivitiesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	activities, err := s.services.Activities.ListActivities(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListActivitiesOutput{Body: orEmpty(activities)}, nil
}

func (s *Server) handleCreateActivity(ctx context.Context, input *CreateActivityInput) (*ActivityOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	activity, err := s.services.Activities.CreateActivity(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ActivityOutput{Body: activity}, nil
}

func (s *Server) handleGetActivity(ctx context.Context, input *IDPathInput) (*ActivityOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	activity, err := s.services.Activities.GetActivity(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ActivityOutput{Body: activity}, nil
}

func (s *Server) handleUpdateActivity(ctx context.Context, input *UpdateActivityInput) (*ActivityOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	activity, err := s.services.Activities.UpdateActivity(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ActivityOutput{Body: activity}, nil
}

func (s *Server) handleDeleteActivity(ctx context.Context, input *IDPathInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Activities.DeleteActivity(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *Server) handleBatchUpdateActivities(ctx context.Context, input *BatchUpdateActivitiesInput) (*ListActivitiesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	activities, err := s.services.Activities.BatchUpdateTags(ctx, userID, input.Body.ActivitiesList)
	if err != nil {
		return nil, err
	}

	return &ListActivitiesOutput{Body: orEmpty(activities)}, nil
}

func (s *Server) handleBatchDuplicateActivities(ctx context.Context, input *BatchDuplicateActivitiesInput) (*DuplicateActivitiesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Activities.BatchDuplicate(ctx, userID, input.Body.DuplicateList)
	if err != nil {
		return nil, err
	}

	result.Activities = orEmpty(result.Activities)
	result.Failed = orEmpty(result.Failed)
	return &DuplicateActivitiesOutput{Body: result}, nil
}

func (s *Server) handleBatchDeleteActivities(ctx context.Context, input *BatchDeleteActivitiesInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.services.Activities.BatchDelete(ctx, userID, input.Body.DeleteList); err != nil {
		return nil, err
	}

	return nil, nil
}
