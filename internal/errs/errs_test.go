package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"terminal-terrace/conduit/pkg/response"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   response.ResponseCode
	}{
		{"不存在", fmt.Errorf("article does not exist: %w", ErrNotFound), http.StatusNotFound, response.NotFound},
		{"非作者", fmt.Errorf("not the author: %w", ErrForbidden), http.StatusForbidden, response.Forbidden},
		{"未登录", ErrUnauthorized, http.StatusUnauthorized, response.Unauthorized},
		{"关注自己", ErrInvalidRelationship, http.StatusBadRequest, response.InvalidRelationship},
		{"唯一冲突", ErrConflict, http.StatusUnprocessableEntity, response.Conflict},
		{"校验失败", ErrValidationFailed, http.StatusUnprocessableEntity, response.InvalidParameter},
		{"计数不一致", ErrInconsistent, http.StatusInternalServerError, response.Inconsistent},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError, response.Fail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Classify(tt.err)
			assert.Equal(t, tt.wantStatus, k.Status)
			assert.Equal(t, tt.wantCode, k.Code)
		})
	}
}

func TestClassify_DoubleWrapped(t *testing.T) {
	inner := fmt.Errorf("profile does not exist: %w", ErrNotFound)
	outer := fmt.Errorf("follow: %w", inner)

	assert.Equal(t, http.StatusNotFound, Classify(outer).Status)
}
