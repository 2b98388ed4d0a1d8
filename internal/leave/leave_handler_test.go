package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave-ledger/internal/leave"
	leaveerrors "go-leave-ledger/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveService struct {
	SubmitFn  func(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveApplicationResponse, error)
	GetAllFn  func(ctx context.Context, employeeID string) ([]leave.LeaveApplicationResponse, error)
	GetByIDFn func(ctx context.Context, id string) (leave.LeaveApplicationResponse, error)
	ApproveFn func(ctx context.Context, id, comments string) (leave.LeaveApplicationResponse, error)
	RejectFn  func(ctx context.Context, id, rejectionReason string) (leave.LeaveApplicationResponse, error)
	CancelFn  func(ctx context.Context, id string) (leave.LeaveApplicationResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveApplicationResponse, error) {
	return f.SubmitFn(ctx, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, employeeID string) ([]leave.LeaveApplicationResponse, error) {
	return f.GetAllFn(ctx, employeeID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveApplicationResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeLeaveService) Approve(ctx context.Context, id, comments string) (leave.LeaveApplicationResponse, error) {
	return f.ApproveFn(ctx, id, comments)
}
func (f *fakeLeaveService) Reject(ctx context.Context, id, rejectionReason string) (leave.LeaveApplicationResponse, error) {
	return f.RejectFn(ctx, id, rejectionReason)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, id string) (leave.LeaveApplicationResponse, error) {
	return f.CancelFn(ctx, id)
}

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
		Page       int   `json:"page"`
		PageSize   int   `json:"pageSize"`
	} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLeaveHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			SubmitFn: func(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveApplicationResponse, error) {
				return leave.LeaveApplicationResponse{
					ID:     uuid.NewString(),
					Status: "PENDING",
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{
			"employee_id":"` + uuid.NewString() + `",
			"leave_type_id":"` + uuid.NewString() + `",
			"start_date":"2026-10-05",
			"end_date":"2026-10-09",
			"reason":"family trip"
		}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
	})

	t.Run("validation error on missing fields", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("overlap surfaces as bad request", func(t *testing.T) {
		svc := &fakeLeaveService{
			SubmitFn: func(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveApplicationResponse, error) {
				return leave.LeaveApplicationResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{
			"employee_id":"` + uuid.NewString() + `",
			"leave_type_id":"` + uuid.NewString() + `",
			"start_date":"2026-10-05",
			"end_date":"2026-10-09",
			"reason":"family trip"
		}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	listOf := func(n int) []leave.LeaveApplicationResponse {
		out := make([]leave.LeaveApplicationResponse, n)
		for i := range out {
			out[i] = leave.LeaveApplicationResponse{ID: uuid.NewString(), Status: "PENDING"}
		}
		return out
	}

	t.Run("success paginates with meta", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetAllFn: func(ctx context.Context, employeeID string) ([]leave.LeaveApplicationResponse, error) {
				return listOf(25), nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=2&page_size=10", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.NotNil(t, env.Meta)
		assert.Equal(t, int64(25), env.Meta.Total)
		assert.Equal(t, 3, env.Meta.TotalPages)
		assert.Equal(t, 2, env.Meta.Page)
		assert.Equal(t, 10, env.Meta.PageSize)

		var items []leave.LeaveApplicationResponse
		assert.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Len(t, items, 10)
	})

	t.Run("page past the end returns an empty slice", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetAllFn: func(ctx context.Context, employeeID string) ([]leave.LeaveApplicationResponse, error) {
				return listOf(3), nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=5&page_size=10", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, int64(3), env.Meta.Total)

		var items []leave.LeaveApplicationResponse
		assert.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Empty(t, items)
	})

	t.Run("bad page values fall back to defaults", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetAllFn: func(ctx context.Context, employeeID string) ([]leave.LeaveApplicationResponse, error) {
				return listOf(12), nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=zero&page_size=-4", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, 1, env.Meta.Page)
		assert.Equal(t, 10, env.Meta.PageSize)

		var items []leave.LeaveApplicationResponse
		assert.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Len(t, items, 10)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success with empty body", func(t *testing.T) {
		leaveID := uuid.NewString()
		svc := &fakeLeaveService{
			ApproveFn: func(ctx context.Context, id, comments string) (leave.LeaveApplicationResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Empty(t, comments)
				return leave.LeaveApplicationResponse{ID: id, Status: "APPROVED"}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-pending maps to conflict with INVALID_STATE", func(t *testing.T) {
		leaveID := uuid.NewString()
		svc := &fakeLeaveService{
			ApproveFn: func(ctx context.Context, id, comments string) (leave.LeaveApplicationResponse, error) {
				return leave.LeaveApplicationResponse{}, leaveerrors.ErrNotPending
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		leaveID := uuid.NewString()
		svc := &fakeLeaveService{
			ApproveFn: func(ctx context.Context, id, comments string) (leave.LeaveApplicationResponse, error) {
				return leave.LeaveApplicationResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Approve(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing reason is a validation error", func(t *testing.T) {
		leaveID := uuid.NewString()
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		leaveID := uuid.NewString()
		svc := &fakeLeaveService{
			RejectFn: func(ctx context.Context, id, rejectionReason string) (leave.LeaveApplicationResponse, error) {
				assert.Equal(t, "short staffed", rejectionReason)
				return leave.LeaveApplicationResponse{ID: id, Status: "REJECTED"}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/reject", strings.NewReader(`{"rejection_reason":"short staffed"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("underway maps to conflict", func(t *testing.T) {
		leaveID := uuid.NewString()
		svc := &fakeLeaveService{
			CancelFn: func(ctx context.Context, id string) (leave.LeaveApplicationResponse, error) {
				return leave.LeaveApplicationResponse{}, leaveerrors.ErrLeaveUnderway
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Cancel(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
