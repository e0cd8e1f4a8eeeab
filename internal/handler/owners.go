package handler

import (
	"net/http"

	"module-owner-service/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// OwnerHandler обрабатывает запросы о владении модулями.
type OwnerHandler struct {
	*BaseHandler
	ownerUseCase domain.OwnerUseCase
}

// NewOwnerHandler создает новый экземпляр OwnerHandler.
func NewOwnerHandler(ownerUseCase domain.OwnerUseCase, logger *logrus.Logger) *OwnerHandler {
	return &OwnerHandler{
		BaseHandler:  NewBaseHandler(logger),
		ownerUseCase: ownerUseCase,
	}
}

// GetOwnerStatus возвращает статус владения пользователя для ревизии.
func (h *OwnerHandler) GetOwnerStatus(c echo.Context) error {
	changeID := c.Param("changeID")
	revision := c.Param("revision")
	accountID := c.QueryParam("account")
	if accountID == "" {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_ACCOUNT", "account id is required"))
	}

	logEntry := h.logRequest(c, "owner_status").WithFields(logrus.Fields{
		"change":  changeID,
		"account": accountID,
	})

	status, err := h.ownerUseCase.OwnerStatus(c.Request().Context(), changeID, revision, accountID)
	if err != nil {
		logEntry.WithError(err).Error("Failed to resolve owner status")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), domain.ErrorResponse{Error: httpErr})
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]string{"status": status})
}

// PostSubmitCheck проверяет право пользователя на submit ревизии.
func (h *OwnerHandler) PostSubmitCheck(c echo.Context) error {
	changeID := c.Param("changeID")
	revision := c.Param("revision")
	accountID := c.QueryParam("account")
	if accountID == "" {
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_ACCOUNT", "account id is required"))
	}

	logEntry := h.logRequest(c, "submit_check").WithFields(logrus.Fields{
		"change":    changeID,
		"submitter": accountID,
	})

	err := h.ownerUseCase.CheckSubmit(c.Request().Context(), changeID, revision, accountID)
	if err != nil {
		logEntry.WithError(err).Warn("Submit check rejected")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), domain.ErrorResponse{Error: httpErr})
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "allowed"})
}

// GetProjectOwners возвращает карту владельцев проекта.
func (h *OwnerHandler) GetProjectOwners(c echo.Context) error {
	project := c.Param("project")

	logEntry := h.logRequest(c, "project_owners").WithField("project", project)

	owners, err := h.ownerUseCase.ListOwners(c.Request().Context(), project)
	if err != nil {
		logEntry.WithError(err).Error("Failed to list project owners")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), domain.ErrorResponse{Error: httpErr})
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"project": project,
		"owners":  owners,
	})
}
