package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipe-catalog/internal/http/response"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
	"github.com/yungbote/recipe-catalog/internal/realtime/feed"
	"github.com/yungbote/recipe-catalog/internal/services"
)

type ChangesHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
	feed    *feed.Feed
}

func NewChangesHandler(log *logger.Logger, catalog services.CatalogService, f *feed.Feed) *ChangesHandler {
	return &ChangesHandler{
		log:     log.With("handler", "ChangesHandler"),
		catalog: catalog,
		feed:    f,
	}
}

// GET /api/changes?after=&limit=
func (h *ChangesHandler) List(c *gin.Context) {
	after, ok := queryInt(c, "after")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	rows, err := h.catalog.ChangesSince(c.Request.Context(), uint64(after), int(limit))
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	var next uint64
	if len(rows) > 0 {
		next = rows[len(rows)-1].Seq
	} else {
		// An empty page points at the head of the log. After a store reset
		// this is lower than after, letting the client resync.
		next, err = h.catalog.LatestChangeSeq(c.Request.Context())
		if err != nil {
			response.RespondCatalogError(c, err)
			return
		}
	}
	response.RespondOK(c, gin.H{"changes": rows, "next": next})
}

// GET /api/changes/stream
func (h *ChangesHandler) Stream(c *gin.Context) {
	sub := h.feed.Subscribe(0)
	defer h.feed.Unsubscribe(sub)
	h.log.Info("Change stream open", "subscriberID", sub.ID)
	h.feed.ServeSSE(c.Writer, c.Request, sub)
	h.log.Info("Change stream closed", "subscriberID", sub.ID)
}
