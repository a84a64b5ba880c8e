package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/http/response"
	"github.com/nekobyte/englishtek-backend/internal/platform/ctxutil"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type BadgeHandler struct {
	badges  services.BadgeService
	content services.ContentService
}

func NewBadgeHandler(badges services.BadgeService, content services.ContentService) *BadgeHandler {
	return &BadgeHandler{badges: badges, content: content}
}

// GET /api/v1/badges/my
func (h *BadgeHandler) ListMyBadges(c *gin.Context) {
	badges, err := h.badges.ListMyBadges(requestCtx(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"badges": badges})
}

// GET /api/v1/badges/my/count
func (h *BadgeHandler) CountMyBadges(c *gin.Context) {
	n, err := h.badges.CountUserBadges(requestCtx(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"count": n})
}

// POST /api/v1/badges/reconcile
func (h *BadgeHandler) Reconcile(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondAppError(c, domainagg.Unauthorized("badge.reconcile", "missing identity"))
		return
	}
	granted, err := h.badges.ReconcileBadges(requestCtx(c), rd.UserID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"granted": granted})
}

// DELETE /api/v1/badges/:id
func (h *BadgeHandler) DeleteBadge(c *gin.Context) {
	badgeID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if err := h.content.DeleteBadge(requestCtx(c), badgeID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
