package handler

import (
	"net/http"
	"strconv"

	"plantstore/internal/domain/model"
	"plantstore/internal/repository"
	"plantstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuditHandler struct {
	uc *usecase.AuditUsecase
}

func NewAuditHandler(uc *usecase.AuditUsecase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

func (h *AuditHandler) RegisterRoutes(api *echo.Group, gate Gate) {
	api.GET("/audit/logs", h.list, gate.Admin()...)
}

// GET /audit/logs?actorUserId=&action=&resourceType=&resourceId=&from=&to=&limit=&offset=
func (h *AuditHandler) list(c echo.Context) error {
	var f repository.AuditLogFilter
	var err error

	if f.ActorUserID, err = optionalInt64(c, "actorUserId"); err != nil {
		return badRequest(c, "invalid actorUserId")
	}
	if f.ResourceID, err = optionalInt64(c, "resourceId"); err != nil {
		return badRequest(c, "invalid resourceId")
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		switch a {
		case model.AuditActionCreatePlant, model.AuditActionUpdatePlant, model.AuditActionUpdateStock,
			model.AuditActionDeletePlant, model.AuditActionUpdateOrderStatus:
			f.Action = &a
		default:
			return badRequest(c, "invalid action")
		}
	}
	if v := c.QueryParam("resourceType"); v != "" {
		rt := model.AuditResourceType(v)
		switch rt {
		case model.AuditResourcePlant, model.AuditResourceOrder:
			f.ResourceType = &rt
		default:
			return badRequest(c, "invalid resourceType")
		}
	}
	if f.CreatedFrom, err = optionalDate(c, "from", false); err != nil {
		return badRequest(c, "invalid from")
	}
	if f.CreatedTo, err = optionalDate(c, "to", true); err != nil {
		return badRequest(c, "invalid to")
	}
	if v := c.QueryParam("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil || f.Limit < 0 {
			return badRequest(c, "invalid limit")
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if f.Offset, err = strconv.Atoi(v); err != nil || f.Offset < 0 {
			return badRequest(c, "invalid offset")
		}
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{
		"total": out.Total,
		"logs":  out.Logs,
	})
}
