package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"unibot/internal/logger"
	"unibot/internal/model"
	"unibot/internal/service"
)

// TaskNotifier is the slice of the notify service the handler needs.
type TaskNotifier interface {
	Notify(ctx context.Context, target string, taskID int) (string, error)
	NotifyPending(ctx context.Context) (int, []string, error)
}

type NotifyHandler struct {
	svc TaskNotifier
}

func NewNotifyHandler(svc TaskNotifier) *NotifyHandler {
	return &NotifyHandler{svc: svc}
}

// POST /api/notificar-tareas/:target/:taskId
func (h *NotifyHandler) NotifyTask(c *gin.Context) {
	target := c.Param("target")
	if target != service.TargetAsignado && target != service.TargetCreador {
		c.JSON(http.StatusBadRequest, model.NotifyResponse{
			Status: "error", Message: "destino inválido",
			Detail: fmt.Sprintf("se esperaba %s o %s", service.TargetAsignado, service.TargetCreador),
		})
		return
	}
	taskID, err := strconv.Atoi(c.Param("taskId"))
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, model.NotifyResponse{
			Status: "error", Message: "taskId inválido", Detail: c.Param("taskId"),
		})
		return
	}

	outcome, err := h.svc.Notify(c.Request.Context(), target, taskID)
	if err != nil {
		logger.Error("notify failed", "target", target, "tarea", taskID, "err", err)
		c.JSON(http.StatusInternalServerError, model.NotifyResponse{
			Status: "error", Message: "no se pudo notificar la tarea", Detail: err.Error(),
		})
		return
	}
	// Benign terminal outcomes (task missing, no recipient) are still 200.
	c.JSON(http.StatusOK, model.NotifyResponse{Status: "ok", Message: outcome})
}

// POST /api/notificar-pendientes
func (h *NotifyHandler) NotifyPending(c *gin.Context) {
	sent, outcomes, err := h.svc.NotifyPending(c.Request.Context())
	if err != nil {
		logger.Error("notify pending failed", "err", err)
		c.JSON(http.StatusInternalServerError, model.NotifyResponse{
			Status: "error", Message: "no se pudieron notificar las tareas pendientes", Detail: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, model.NotifyResponse{
		Status:  "ok",
		Message: fmt.Sprintf("%d notificaciones enviadas de %d tareas procesadas", sent, len(outcomes)),
		Detail:  strings.Join(outcomes, "; "),
	})
}
