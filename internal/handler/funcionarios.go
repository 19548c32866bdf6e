package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"unibot/internal/logger"
	"unibot/internal/model"
)

type FuncionarioLister interface {
	FuncionariosActivos(ctx context.Context) ([]model.Funcionario, error)
}

type FuncionarioHandler struct {
	store FuncionarioLister
}

func NewFuncionarioHandler(store FuncionarioLister) *FuncionarioHandler {
	return &FuncionarioHandler{store: store}
}

// GET /funcionarios — read-only passthrough of the active employee list.
func (h *FuncionarioHandler) List(c *gin.Context) {
	fs, err := h.store.FuncionariosActivos(c.Request.Context())
	if err != nil {
		logger.Error("list funcionarios failed", "err", err)
		c.JSON(http.StatusInternalServerError, model.FuncionariosResponse{
			Success: false, Message: "no se pudo consultar la base",
		})
		return
	}
	if fs == nil {
		fs = []model.Funcionario{}
	}
	c.JSON(http.StatusOK, model.FuncionariosResponse{Success: true, Message: "ok", Data: fs})
}
