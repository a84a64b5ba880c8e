package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
)

func requestCtx(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

// uuidParam parses a path param, failing with a Validation error.
func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, domainagg.Validation("params."+name, "invalid "+name)
	}
	return id, nil
}
