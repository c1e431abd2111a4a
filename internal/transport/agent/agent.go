package agent

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagent "github.com/alanyang/support-router/internal/domain/agent"
	agentsvc "github.com/alanyang/support-router/internal/service/agent"
)

func Register(rg *gin.RouterGroup, svc *agentsvc.Service) {
	rg.POST("", registerAgent(svc))
	rg.GET("", listAgents(svc))
	rg.GET("/:user", getAgent(svc))
	rg.PUT("/:user/status", setStatus(svc))
	// /queue is the tenant default queue; /queues/:group is always literal.
	rg.PUT("/:user/queue", joinQueue(svc))
	rg.DELETE("/:user/queue", leaveQueue(svc))
	rg.PUT("/:user/queues/:group", joinQueue(svc))
	rg.DELETE("/:user/queues/:group", leaveQueue(svc))
}

type joinReq struct {
	Position int `json:"position"`
}

func joinQueue(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req joinReq
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		err := svc.JoinQueue(c.Request.Context(), c.Param("tenant"), c.Param("group"), c.Param("user"), req.Position)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func leaveQueue(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.LeaveQueue(c.Request.Context(), c.Param("tenant"), c.Param("group"), c.Param("user")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type registerReq struct {
	UserID        string `json:"user_id" binding:"required"`
	Name          string `json:"name"`
	MaxConcurrent int    `json:"max_concurrent" binding:"min=0"`
}

func registerAgent(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		a, err := svc.Register(c.Request.Context(), c.Param("tenant"), req.UserID, req.Name, req.MaxConcurrent)
		if err != nil {
			if errors.Is(err, agentsvc.ErrInvalidAgent) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

type statusReq struct {
	Status domainagent.Status `json:"status" binding:"required"`
}

func setStatus(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := svc.SetStatus(c.Request.Context(), c.Param("tenant"), c.Param("user"), req.Status)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"status": req.Status})
		case errors.Is(err, agentsvc.ErrInvalidAgent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domainagent.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

func listAgents(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := domainagent.ListFilters{TenantID: c.Param("tenant")}

		if v, ok := c.GetQuery("group"); ok {
			filters.GroupKey = &v
		}
		if v := c.Query("status"); v != "" {
			s := domainagent.Status(v)
			if !s.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
				return
			}
			filters.Status = &s
		}

		agents, err := svc.List(c.Request.Context(), filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if agents == nil {
			agents = []domainagent.Agent{}
		}
		c.JSON(http.StatusOK, agents)
	}
}

func getAgent(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := svc.Get(c.Request.Context(), c.Param("tenant"), c.Param("user"))
		if errors.Is(err, domainagent.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}
