package visitor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/visitorpass/internal/application/visitor/usecases"
	"github.com/orris-inc/visitorpass/internal/interfaces/http/middleware"
	"github.com/orris-inc/visitorpass/internal/shared/errors"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
	"github.com/orris-inc/visitorpass/internal/shared/utils"
)

type Handler struct {
	createUC   usecases.CreateVisitorRequestExecutor
	reviewUC   usecases.ReviewVisitorRequestExecutor
	checkInUC  usecases.CheckInVisitorExecutor
	checkOutUC usecases.CheckOutVisitorExecutor
	getUC      usecases.GetVisitorRequestExecutor
	listUC     usecases.ListVisitorRequestsExecutor
	lookupUC   usecases.LookupByApprovalCodeExecutor
	logger     logger.Interface
}

func NewHandler(
	createUC usecases.CreateVisitorRequestExecutor,
	reviewUC usecases.ReviewVisitorRequestExecutor,
	checkInUC usecases.CheckInVisitorExecutor,
	checkOutUC usecases.CheckOutVisitorExecutor,
	getUC usecases.GetVisitorRequestExecutor,
	listUC usecases.ListVisitorRequestsExecutor,
	lookupUC usecases.LookupByApprovalCodeExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createUC:   createUC,
		reviewUC:   reviewUC,
		checkInUC:  checkInUC,
		checkOutUC: checkOutUC,
		getUC:      getUC,
		listUC:     listUC,
		lookupUC:   lookupUC,
		logger:     logger,
	}
}

// Create handles POST /visitor-requests
func (h *Handler) Create(c *gin.Context) {
	var req CreateVisitorRequestRequest
	if err := h.bind(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd, err := req.ToCommand(middleware.CurrentActor(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Visitor request submitted")
}

// List handles GET /visitor-requests
func (h *Handler) List(c *gin.Context) {
	query := parseListQuery(c, middleware.CurrentActor(c))

	result, err := h.listUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Requests, result.Total, result.Page, result.PageSize)
}

// Get handles GET /visitor-requests/:id
func (h *Handler) Get(c *gin.Context) {
	requestID, err := utils.ParseVisitorRequestID(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetVisitorRequestQuery{
		Actor:     middleware.CurrentActor(c),
		RequestID: requestID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Review handles POST /visitor-requests/:id/review
func (h *Handler) Review(c *gin.Context) {
	requestID, err := utils.ParseVisitorRequestID(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ReviewVisitorRequestRequest
	if err := h.bind(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.reviewUC.Execute(c.Request.Context(), usecases.ReviewVisitorRequestCommand{
		Actor:          middleware.CurrentActor(c),
		RequestID:      requestID,
		Decision:       req.Decision,
		ReviewComments: utils.SanitizeText(req.ReviewComments),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Visitor request "+result.Status, result)
}

// CheckIn handles POST /visitor-requests/:id/check-in. The body is optional.
func (h *Handler) CheckIn(c *gin.Context) {
	requestID, err := utils.ParseVisitorRequestID(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CheckInVisitorRequest
	if c.Request.ContentLength > 0 {
		if err := h.bind(c, &req); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	result, err := h.checkInUC.Execute(c.Request.Context(), usecases.CheckInVisitorCommand{
		Actor:        middleware.CurrentActor(c),
		RequestID:    requestID,
		ApprovalCode: req.ApprovalCode,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Visitor checked in", result)
}

// CheckOut handles POST /visitor-requests/:id/check-out
func (h *Handler) CheckOut(c *gin.Context) {
	requestID, err := utils.ParseVisitorRequestID(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.checkOutUC.Execute(c.Request.Context(), usecases.CheckOutVisitorCommand{
		Actor:     middleware.CurrentActor(c),
		RequestID: requestID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Visitor checked out", result)
}

// LookupByApprovalCode handles GET /visitor-requests/approval/:code
func (h *Handler) LookupByApprovalCode(c *gin.Context) {
	result, err := h.lookupUC.Execute(c.Request.Context(), usecases.LookupByApprovalCodeQuery{
		Actor:        middleware.CurrentActor(c),
		ApprovalCode: c.Param("code"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *Handler) bind(c *gin.Context, target interface{}) error {
	if err := c.ShouldBindJSON(target); err != nil {
		h.logger.Warnw("invalid request body", "path", c.FullPath(), "error", err)
		return errors.NewValidationError("Invalid request body", err.Error())
	}
	return nil
}
