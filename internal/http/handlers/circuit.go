package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/circuitboard-backend/internal/http/response"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/requestdata"
	"github.com/yungbote/circuitboard-backend/internal/services"
)

type CircuitHandler struct {
	log      *logger.Logger
	circuits services.CircuitService
}

func NewCircuitHandler(log *logger.Logger, circuits services.CircuitService) *CircuitHandler {
	return &CircuitHandler{
		log:      log.With("handler", "CircuitHandler"),
		circuits: circuits,
	}
}

// POST /api/circuits
func (h *CircuitHandler) Create(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	var input services.CircuitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	circuit, err := h.circuits.Create(c.Request.Context(), rd.UserID, input)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, circuit)
}

// GET /api/circuits
func (h *CircuitHandler) List(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	circuits, err := h.circuits.List(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, circuits)
}

// GET /api/circuits/:id
func (h *CircuitHandler) Get(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	circuit, err := h.circuits.Get(c.Request.Context(), rd.UserID, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, circuit)
}

// PUT /api/circuits/:id
func (h *CircuitHandler) Update(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input services.CircuitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	circuit, err := h.circuits.Update(c.Request.Context(), rd.UserID, id, input)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, circuit)
}

// DELETE /api/circuits/:id
func (h *CircuitHandler) Delete(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.circuits.Delete(c.Request.Context(), rd.UserID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}

func callerIdentity(c *gin.Context) (*requestdata.RequestData, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return nil, false
	}
	return rd, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}
