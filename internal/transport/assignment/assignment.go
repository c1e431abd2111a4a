package assignment

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainassign "github.com/alanyang/support-router/internal/domain/assignment"
	assignsvc "github.com/alanyang/support-router/internal/service/assignment"
)

// Register mounts the assignment routes. The tenant default queue is routed
// without a queue segment; /queues/:group always names a real queue, so a
// queue called "default" stays addressable.
func Register(api *gin.RouterGroup, svc *assignsvc.Service) {
	api.POST("/assignments", assign(svc))
	api.POST("/tenants/:tenant/route", route(svc))
	api.POST("/tenants/:tenant/queues/:group/route", route(svc))
	api.GET("/tenants/:tenant/strategy", strategy(svc))
}

type candidateReq struct {
	UserID        string `json:"user_id" binding:"required"`
	MaxConcurrent int    `json:"max_concurrent" binding:"min=0"`
}

type assignReq struct {
	TenantID        string         `json:"tenant_id"`
	GroupKey        string         `json:"group_key"`
	LastAgentUserID string         `json:"last_agent_user_id"`
	Candidates      []candidateReq `json:"candidates" binding:"dive"`
	ActiveLoads     map[string]int `json:"active_loads"`
}

func assign(svc *assignsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assignReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		candidates := make([]domainassign.Candidate, 0, len(req.Candidates))
		for _, cr := range req.Candidates {
			candidates = append(candidates, domainassign.Candidate{UserID: cr.UserID, MaxConcurrent: cr.MaxConcurrent})
		}

		d, err := svc.Assign(c.Request.Context(), assignsvc.AssignRequest{
			TenantID:        req.TenantID,
			GroupKey:        req.GroupKey,
			LastAgentUserID: req.LastAgentUserID,
			Candidates:      candidates,
			ActiveLoads:     req.ActiveLoads,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

type routeReq struct {
	ConversationID  string `json:"conversation_id" binding:"required"`
	LastAgentUserID string `json:"last_agent_user_id"`
}

func route(svc *assignsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req routeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		d, err := svc.Route(c.Request.Context(), assignsvc.RouteRequest{
			TenantID:        c.Param("tenant"),
			GroupKey:        c.Param("group"),
			ConversationID:  req.ConversationID,
			LastAgentUserID: req.LastAgentUserID,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func strategy(svc *assignsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.ResolveStrategy(c.Request.Context(), c.Param("tenant"), c.Query("group"))
		if err != nil {
			writeError(c, err)
			return
		}
		body := gin.H{"strategy": res.Key, "fallback": res.Fallback()}
		if res.Fallback() {
			body["requested"] = res.Requested
		}
		c.JSON(http.StatusOK, body)
	}
}

// writeError keeps configuration errors distinguishable from bad input and
// from collaborator failures.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainassign.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_argument"})
	case errors.Is(err, domainassign.ErrConfiguration):
		slog.ErrorContext(c.Request.Context(), "assignment misconfigured", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "configuration_error"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "code": "upstream_error"})
	}
}
