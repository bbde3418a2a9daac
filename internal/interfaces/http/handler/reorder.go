package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/reorder/internal/application/agent"
	appreorder "github.com/erp/reorder/internal/application/reorder"
	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/erp/reorder/internal/interfaces/http/dto"
	"github.com/erp/reorder/internal/interfaces/http/middleware"
)

// ReorderHandler handles reorder engine API endpoints
type ReorderHandler struct {
	BaseHandler
	engine   *appreorder.EngineService
	drafts   *appreorder.DraftService
	executor *agent.Executor
}

// NewReorderHandler creates a new ReorderHandler
func NewReorderHandler(
	engine *appreorder.EngineService,
	drafts *appreorder.DraftService,
	executor *agent.Executor,
) *ReorderHandler {
	return &ReorderHandler{
		engine:   engine,
		drafts:   drafts,
		executor: executor,
	}
}

// RegisterRoutes registers reorder routes on the API group
func (h *ReorderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reorderGroup := rg.Group("/reorder")
	{
		reorderGroup.POST("/runs", h.Run)
		reorderGroup.GET("/drafts", h.ListDrafts)
		reorderGroup.GET("/drafts/:id", h.GetDraft)
		reorderGroup.POST("/drafts/:id/approve", h.ApproveDraft)
		reorderGroup.POST("/drafts/:id/reject", h.RejectDraft)
		reorderGroup.POST("/drafts/:id/convert", h.ConvertDraft)
		reorderGroup.POST("/drafts/:id/fulfill", h.FulfillDraft)
		reorderGroup.GET("/tools", h.ListTools)
		reorderGroup.POST("/tools/:name", h.ExecuteTool)
	}
}

// RunRequest is the request body for triggering an engine run
type RunRequest struct {
	BudgetCap   string   `json:"budget_cap"`
	ItemCodes   []string `json:"item_codes"`
	Explanation string   `json:"explanation"`
}

// RejectRequest is the request body for rejecting a draft
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Run triggers a full engine run and returns its summary
func (h *ReorderHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	runReq := appreorder.RunRequest{
		ItemCodes:   req.ItemCodes,
		Explanation: req.Explanation,
		RequestedBy: middleware.GetJWTUsername(c),
	}

	if req.BudgetCap != "" {
		budget, err := decimal.NewFromString(req.BudgetCap)
		if err != nil {
			h.BadRequest(c, "Invalid budget_cap: must be a decimal number")
			return
		}
		runReq.BudgetCap = &budget
	}

	result, err := h.engine.Run(c.Request.Context(), runReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListDrafts returns a paginated list of draft purchase requests
func (h *ReorderHandler) ListDrafts(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := reorder.DraftFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		status := reorder.DraftStatus(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status filter: "+req.Status)
			return
		}
		filter.Status = &status
	}

	drafts, total, err := h.drafts.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, drafts, total, req.Page, req.PageSize)
}

// GetDraft returns a single draft by ID
func (h *ReorderHandler) GetDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, draft)
}

// ApproveDraft approves a pending draft
func (h *ReorderHandler) ApproveDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Approve(c.Request.Context(), id, middleware.GetJWTUsername(c), middleware.GetJWTRole(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, draft)
}

// RejectDraft rejects a pending draft with a reason
func (h *ReorderHandler) RejectDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	draft, err := h.drafts.Reject(c.Request.Context(), id, middleware.GetJWTUsername(c), middleware.GetJWTRole(c), req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, draft)
}

// ConvertDraft converts an approved draft into a purchase requisition
func (h *ReorderHandler) ConvertDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Convert(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, draft)
}

// FulfillDraft marks a draft fulfilled and applies its stock receipts
func (h *ReorderHandler) FulfillDraft(c *gin.Context) {
	id, ok := h.draftID(c)
	if !ok {
		return
	}

	draft, err := h.drafts.Fulfill(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, draft)
}

// ListTools returns the schemas of all executable tools
func (h *ReorderHandler) ListTools(c *gin.Context) {
	h.Success(c, agent.Schemas())
}

// ExecuteTool parses and runs a single named tool call
func (h *ReorderHandler) ExecuteTool(c *gin.Context) {
	name := c.Param("name")

	var args json.RawMessage
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	call, err := agent.ParseToolCall(name, args)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	result, err := h.executor.Execute(c.Request.Context(), call)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// draftID parses the :id path parameter
func (h *ReorderHandler) draftID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid draft ID format")
		return uuid.Nil, false
	}
	return id, true
}
