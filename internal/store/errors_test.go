package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/journalapp/journal-server/internal/store"
)

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &store.Error{Code: http.StatusNotFound, Message: "not found", Err: cause}

	assert.Equal(t, "not found: underlying error", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestError_IsMatchesVariants(t *testing.T) {
	err := fmt.Errorf("get activity 4: %w", store.ErrNotFound.WithMessage("activity not found"))

	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.False(t, errors.Is(err, store.ErrAlreadyExists))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    *store.Error
		wantMsg string
	}{
		{
			name:    "unique",
			err:     errors.New("constraint failed: UNIQUE constraint failed: tags.tag_user_id, tags.tag_name (2067)"),
			want:    store.ErrAlreadyExists,
			wantMsg: "UNIQUE constraint failed: tags.tag_user_id, tags.tag_name",
		},
		{
			name:    "foreign key",
			err:     errors.New("constraint failed: FOREIGN KEY constraint failed (787)"),
			want:    store.ErrInvalidInput,
			wantMsg: "FOREIGN KEY constraint failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Classify(tt.err)

			var storeErr *store.Error
			assert.ErrorAs(t, got, &storeErr)
			assert.True(t, errors.Is(got, tt.want))
			assert.Equal(t, tt.wantMsg, storeErr.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	plain := errors.New("disk I/O error")
	assert.Equal(t, plain, store.Classify(plain))
	assert.NoError(t, store.Classify(nil))
}
