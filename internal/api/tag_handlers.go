package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns the current user's tags followed by the global default tags",
		Tags:        []string{"Tags"},
		Security:    bearerAuth,
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Create tag",
		Description:   "Creates a tag. The name is capitalized and must be unused by the user; color and class must match.",
		Tags:          []string{"Tags"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID",
		Tags:        []string{"Tags"},
		Security:    bearerAuth,
	}, s.handleGetTag)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		huma.Register(s.api, huma.Operation{
			OperationID: operationID("updateTag", method),
			Method:      method,
			Path:        "/api/v1/tags/{id}",
			Summary:     "Update tag",
			Description: "Updates one of the user's own tags",
			Tags:        []string{"Tags"},
			Security:    bearerAuth,
		}, s.handleUpdateTag)
	}

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteTag",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tags/{id}",
		Summary:       "Delete tag",
		Description:   "Deletes one of the user's own tags",
		Tags:          []string{"Tags"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID:   "batchCreateTags",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags/batch",
		Summary:       "Create tags",
		Description:   "Creates every valid tag in tags_list; invalid entries and repeated names are skipped",
		Tags:          []string{"Tags"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleBatchCreateTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "batchUpdateTags",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/batch",
		Summary:     "Update tags",
		Description: "Updates several of the user's tags in one transaction",
		Tags:        []string{"Tags"},
		Security:    bearerAuth,
	}, s.handleBatchUpdateTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "batchDeleteTags",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tags/batch",
		Summary:       "Delete tags",
		Description:   "Deletes the listed tags the user owns; other ids are ignored",
		Tags:          []string{"Tags"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusNoContent,
	}, s.handleBatchDeleteTags)
}

// === DTOs ===

// TagRequest is the writable part of a tag.
type TagRequest struct {
	Name  string `json:"tag_name,omitempty" maxLength:"300" doc:"Tag name"`
	Color string `json:"tag_color,omitempty" maxLength:"30" doc:"Color name, e.g. WINE RED"`
	Class string `json:"tag_class,omitempty" maxLength:"30" doc:"CSS class matching the color, e.g. color-red"`
}

func (r TagRequest) toService() service.TagInput {
	return service.TagInput{Name: r.Name, Color: r.Color, Class: r.Class}
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body TagRequest
}

// UpdateTagRequest is the request body for updating a tag.
type UpdateTagRequest struct {
	Name  *string `json:"tag_name,omitempty" maxLength:"300" doc:"Tag name"`
	Color *string `json:"tag_color,omitempty" maxLength:"30" doc:"Color name"`
	Class *string `json:"tag_class,omitempty" maxLength:"30" doc:"CSS class"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	ID   int64 `path:"id" doc:"Tag ID"`
	Body UpdateTagRequest
}

// TagPatchRequest updates one tag in a batch.
type TagPatchRequest struct {
	ID int64 `json:"id" doc:"Tag ID"`
	UpdateTagRequest
}

// BatchCreateTagsInput wraps a batch create for Huma.
type BatchCreateTagsInput struct {
	Body struct {
		TagsList []TagRequest `json:"tags_list" doc:"Tags to create"`
	}
}

// BatchUpdateTagsInput wraps a batch update for Huma.
type BatchUpdateTagsInput struct {
	Body struct {
		TagsList []TagPatchRequest `json:"tags_list" doc:"Tag updates"`
	}
}

// BatchDeleteTagsInput wraps a batch delete for Huma.
type BatchDeleteTagsInput struct {
	Body struct {
		TagsList []int64 `json:"tags_list" doc:"IDs of tags to delete"`
	}
}

// TagOutput wraps a tag for Huma.
type TagOutput struct {
	Body *domain.Tag
}

// ListTagsOutput wraps a tag list for Huma.
type ListTagsOutput struct {
	Body []*domain.Tag
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tags.ListTags(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListTagsOutput{Body: orEmpty(tags)}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tags.CreateTag(ctx, userID, input.Body.toService())
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: tag}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *IDPathInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tags.GetTag(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: tag}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tags.UpdateTag(ctx, userID, input.ID, tagPatch(input.ID, input.Body))
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: tag}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *IDPathInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tags.DeleteTag(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *Server) handleBatchCreateTags(ctx context.Context, input *BatchCreateTagsInput) (*ListTagsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	inputs := make([]service.TagInput, 0, len(input.Body.TagsList))
	for _, t := range input.Body.TagsList {
		inputs = append(inputs, t.toService())
	}

	tags, err := s.services.Tags.BatchCreateTags(ctx, userID, inputs)
	if err != nil {
		return nil, err
	}

	return &ListTagsOutput{Body: orEmpty(tags)}, nil
}

func (s *Server) handleBatchUpdateTags(ctx context.Context, input *BatchUpdateTagsInput) (*ListTagsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	patches := make([]service.TagPatch, 0, len(input.Body.TagsList))
	for _, p := range input.Body.TagsList {
		patches = append(patches, tagPatch(p.ID, p.UpdateTagRequest))
	}

	tags, err := s.services.Tags.BatchUpdateTags(ctx, userID, patches)
	if err != nil {
		return nil, err
	}

	return &ListTagsOutput{Body: orEmpty(tags)}, nil
}

func (s *Server) handleBatchDeleteTags(ctx context.Context, input *BatchDeleteTagsInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.services.Tags.BatchDeleteTags(ctx, userID, input.Body.TagsList); err != nil {
		return nil, err
	}

	return nil, nil
}

func tagPatch(id int64, body UpdateTagRequest) service.TagPatch {
	return service.TagPatch{
		ID:    id,
		Name:  body.Name,
		Color: body.Color,
		Class: body.Class,
	}
}
