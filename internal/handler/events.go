package handler

import (
	"context"
	"net/http"

	"module-owner-service/internal/dispatch"
	"module-owner-service/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// EventRequest тело события жизненного цикла изменения.
type EventRequest struct {
	Type           string `json:"type"`
	Project        string `json:"project"`
	ChangeID       string `json:"change_id"`
	PatchSetNumber int    `json:"patch_set"`
	Revision       string `json:"revision"`
	AuthorID       string `json:"author_id"`
	IsDraft        bool   `json:"is_draft"`
}

// RefUpdateRequest тело уведомления об обновлении ссылки проекта.
type RefUpdateRequest struct {
	Project string `json:"project"`
	Ref     string `json:"ref"`
}

// EventHandler принимает события изменений и ставит их в пул обработки.
type EventHandler struct {
	*BaseHandler
	eventUseCase domain.EventUseCase
	ownerUseCase domain.OwnerUseCase
	pool         *dispatch.Pool
}

// NewEventHandler создает новый экземпляр EventHandler.
func NewEventHandler(eventUseCase domain.EventUseCase, ownerUseCase domain.OwnerUseCase, pool *dispatch.Pool, logger *logrus.Logger) *EventHandler {
	return &EventHandler{
		BaseHandler:  NewBaseHandler(logger),
		eventUseCase: eventUseCase,
		ownerUseCase: ownerUseCase,
		pool:         pool,
	}
}

// PostEvent принимает событие и подтверждает постановку в обработку.
func (h *EventHandler) PostEvent(c echo.Context) error {
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind event request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	event := domain.Event{
		Type:           domain.EventType(req.Type),
		Project:        req.Project,
		ChangeID:       req.ChangeID,
		PatchSetNumber: req.PatchSetNumber,
		Revision:       req.Revision,
		AuthorID:       req.AuthorID,
		IsDraft:        req.IsDraft,
	}
	if err := validateEvent(event); err != nil {
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), domain.ErrorResponse{Error: httpErr})
		}
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	logEntry := h.logRequest(c, "handle_event").WithFields(logrus.Fields{
		"type":    req.Type,
		"project": req.Project,
		"change":  req.ChangeID,
	})
	logEntry.Info("Event accepted")

	h.pool.Submit(string(event.Type)+":"+event.ChangeID, func(ctx context.Context) error {
		return h.eventUseCase.HandleEvent(ctx, event)
	})

	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
}

// PostRefUpdate обрабатывает уведомление об обновлении ссылки:
// обновление конфигурационной ветки сбрасывает снимок проекта.
func (h *EventHandler) PostRefUpdate(c echo.Context) error {
	var req RefUpdateRequest
	if err := c.Bind(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind ref update request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}
	if req.Project == "" {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_PROJECT", "project name is required"))
	}

	h.ownerUseCase.InvalidateConfig(req.Project, req.Ref)
	return c.NoContent(http.StatusNoContent)
}

func validateEvent(event domain.Event) error {
	switch event.Type {
	case domain.EventRevisionCreated, domain.EventCommentAdded:
	default:
		return domain.ErrInvalidEventType
	}
	if event.Project == "" {
		return domain.ErrInvalidProject
	}
	if event.ChangeID == "" {
		return domain.ErrInvalidChangeID
	}
	if event.Revision == "" {
		return domain.ErrInvalidRevision
	}
	return nil
}
