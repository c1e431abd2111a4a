package agent_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainagent "github.com/alanyang/support-router/internal/domain/agent"
	"github.com/alanyang/support-router/internal/mocks"
	agentsvc "github.com/alanyang/support-router/internal/service/agent"
	transportagent "github.com/alanyang/support-router/internal/transport/agent"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(t *testing.T) (*gin.Engine, *mocks.MockAgentRepository, *mocks.MockPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAgentRepository(ctrl)
	bus := mocks.NewMockPublisher(ctrl)

	r := gin.New()
	transportagent.Register(r.Group("/tenants/:tenant/agents"), agentsvc.NewService(repo, bus))
	return r, repo, bus
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// ── POST / (registerAgent) ────────────────────────────────────────────────────

func TestRegisterAgent_Success(t *testing.T) {
	r, repo, bus := newRouter(t)
	repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a domainagent.Agent) (domainagent.Agent, error) { return a, nil })
	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	w := do(r, http.MethodPost, "/tenants/acme/agents", `{"user_id":"u1","name":"Dana","max_concurrent":4}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got domainagent.Agent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "acme", got.TenantID)
	assert.Equal(t, 4, got.MaxConcurrent)
	assert.Equal(t, domainagent.StatusOnline, got.Status)
}

func TestRegisterAgent_Validation(t *testing.T) {
	r, _, _ := newRouter(t)

	for _, body := range []string{`{}`, `{"user_id":"u1","max_concurrent":-2}`, `nope`} {
		w := do(r, http.MethodPost, "/tenants/acme/agents", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

// ── PUT /:user/status ─────────────────────────────────────────────────────────

func TestSetStatus(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		repoErr  error
		callRepo bool
		want     int
	}{
		{"online", `{"status":"online"}`, nil, true, http.StatusOK},
		{"unknown status", `{"status":"busy"}`, nil, false, http.StatusBadRequest},
		{"missing agent", `{"status":"away"}`, fmt.Errorf("agent acme/u1: %w", domainagent.ErrNotFound), true, http.StatusNotFound},
		{"db error", `{"status":"away"}`, errors.New("db error"), true, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, repo, bus := newRouter(t)
			if tt.callRepo {
				repo.EXPECT().UpdateStatus(gomock.Any(), "acme", "u1", gomock.Any()).Return(tt.repoErr)
			}
			if tt.callRepo && tt.repoErr == nil {
				bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			}

			w := do(r, http.MethodPut, "/tenants/acme/agents/u1/status", tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

// ── GET / (listAgents) ────────────────────────────────────────────────────────

func TestListAgents_WithFilters(t *testing.T) {
	r, repo, _ := newRouter(t)

	repo.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f domainagent.ListFilters) ([]domainagent.Agent, error) {
			assert.Equal(t, "acme", f.TenantID)
			require.NotNil(t, f.GroupKey)
			assert.Equal(t, "vip", *f.GroupKey)
			require.NotNil(t, f.Status)
			assert.Equal(t, domainagent.StatusOnline, *f.Status)
			return nil, nil
		})

	w := do(r, http.MethodGet, "/tenants/acme/agents?group=vip&status=online", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListAgents_InvalidStatus(t *testing.T) {
	r, _, _ := newRouter(t)
	w := do(r, http.MethodGet, "/tenants/acme/agents?status=busy", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── GET /:user ────────────────────────────────────────────────────────────────

func TestGetAgent(t *testing.T) {
	r, repo, _ := newRouter(t)
	repo.EXPECT().Get(gomock.Any(), "acme", "u1").Return(domainagent.Agent{TenantID: "acme", UserID: "u1"}, nil)
	repo.EXPECT().Get(gomock.Any(), "acme", "u2").Return(domainagent.Agent{}, domainagent.ErrNotFound)

	w := do(r, http.MethodGet, "/tenants/acme/agents/u1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/tenants/acme/agents/u2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ── PUT/DELETE /:user/queues/:group ───────────────────────────────────────────

func TestJoinQueue_DefaultGroup(t *testing.T) {
	r, repo, _ := newRouter(t)
	repo.EXPECT().JoinQueue(gomock.Any(), "acme", "", "u1", 3).Return(nil)

	w := do(r, http.MethodPut, "/tenants/acme/agents/u1/queue", `{"position":3}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestJoinQueue_QueueNamedDefault(t *testing.T) {
	r, repo, _ := newRouter(t)
	repo.EXPECT().JoinQueue(gomock.Any(), "acme", "default", "u1", 0).Return(nil)
	repo.EXPECT().LeaveQueue(gomock.Any(), "acme", "", "u1").Return(nil)

	w := do(r, http.MethodPut, "/tenants/acme/agents/u1/queues/default", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/tenants/acme/agents/u1/queue", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLeaveQueue(t *testing.T) {
	r, repo, _ := newRouter(t)
	repo.EXPECT().LeaveQueue(gomock.Any(), "acme", "billing", "u1").Return(nil)

	w := do(r, http.MethodDelete, "/tenants/acme/agents/u1/queues/billing", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
