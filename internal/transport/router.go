package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/support-router/internal/domain/event"
	porteventbus "github.com/alanyang/support-router/internal/port/eventbus"
	agentsvc "github.com/alanyang/support-router/internal/service/agent"
	assignsvc "github.com/alanyang/support-router/internal/service/assignment"

	agenthandler "github.com/alanyang/support-router/internal/transport/agent"
	assignhandler "github.com/alanyang/support-router/internal/transport/assignment"
	wshandler "github.com/alanyang/support-router/internal/transport/ws"
)

func NewRouter(
	ctx context.Context,
	assignSvc *assignsvc.Service,
	agentSvc *agentsvc.Service,
	mcpHandler http.Handler,
	eventBus porteventbus.EventBus,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	api := r.Group("/api")

	assignhandler.Register(api, assignSvc)
	agenthandler.Register(api.Group("/tenants/:tenant/agents"), agentSvc)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	if mcpHandler != nil {
		r.Any("/mcp", gin.WrapH(mcpHandler))
	}

	// Bridge: one subscription per domain channel. Every event is forwarded and
	// clients filter on event.Type.
	for _, ch := range []event.Channel{
		event.ChannelAssignment,
		event.ChannelAgent,
	} {
		c := ch
		if _, err := eventBus.Subscribe(ctx, c, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", c, "error", err)
		}
	}

	return r
}
