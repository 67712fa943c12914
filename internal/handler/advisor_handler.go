package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vqdung71104/student-management-sub001/internal/dto"
	"github.com/vqdung71104/student-management-sub001/internal/models"
	"github.com/vqdung71104/student-management-sub001/internal/service"
	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
	"github.com/vqdung71104/student-management-sub001/pkg/response"
)

type advisorService interface {
	SubmitTurn(ctx context.Context, req dto.SubmitTurnRequest) (*dto.TurnResponse, error)
	Session(ctx context.Context, studentID string) (*dto.SessionResponse, error)
	Reset(ctx context.Context, studentID string) error
	Result(ctx context.Context, sessionID string) (*dto.AdvisorResult, error)
}

type resultRenderer interface {
	Render(result *dto.AdvisorResult, format service.ExportFormat) (*service.ExportFile, error)
}

// outcomeNotices maps non-question outcomes onto the error catalogue so
// clients can branch on a stable code.
var outcomeNotices = map[dto.TurnOutcome]*appErrors.Error{
	dto.OutcomeReask:              appErrors.ErrParse,
	dto.OutcomeInfeasible:         appErrors.ErrInfeasible,
	dto.OutcomeNoFeasibleSchedule: appErrors.ErrNoFeasibleSchedule,
	dto.OutcomeUnsupportedIntent:  appErrors.ErrUnsupportedIntent,
}

// AdvisorHandler exposes the schedule advisor conversation.
type AdvisorHandler struct {
	service  advisorService
	renderer resultRenderer
}

// NewAdvisorHandler constructs the handler.
func NewAdvisorHandler(svc *service.ScheduleAdvisorService, exporter *service.ExportService) *AdvisorHandler {
	return &AdvisorHandler{service: svc, renderer: exporter}
}

// SubmitTurn godoc
// @Summary Submit one conversation turn
// @Description Answers the pending preference question or opens a new conversation. Completed turns carry ranked combinations.
// @Tags Advisor
// @Accept json
// @Produce json
// @Param payload body dto.SubmitTurnRequest true "Turn payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /advisor/turns [post]
func (h *AdvisorHandler) SubmitTurn(c *gin.Context) {
	var req dto.SubmitTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid turn payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil {
		if claims.Role == models.RoleStudent {
			req.StudentID = claims.StudentID
		} else if !claims.CanActFor(req.StudentID) {
			response.Error(c, appErrors.ErrForbidden)
			return
		}
	}

	resp, err := h.service.SubmitTurn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, turnMeta(resp))
}

func turnMeta(resp *dto.TurnResponse) map[string]interface{} {
	notice, ok := outcomeNotices[resp.Outcome]
	if !ok && resp.Restarted {
		notice, ok = appErrors.ErrSessionExpired, true
	}
	if !ok {
		return nil
	}
	return map[string]interface{}{
		"notice": gin.H{"code": notice.Code, "message": notice.Message},
	}
}

// Session godoc
// @Summary Inspect the live conversation of a student
// @Tags Advisor
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /advisor/sessions/{studentId} [get]
func (h *AdvisorHandler) Session(c *gin.Context) {
	session, err := h.service.Session(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Reset godoc
// @Summary Discard the conversation of a student
// @Tags Advisor
// @Param studentId path string true "Student ID"
// @Success 204
// @Router /advisor/sessions/{studentId} [delete]
func (h *AdvisorHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context(), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Result godoc
// @Summary Fetch the ranked combinations of a completed session
// @Tags Advisor
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /advisor/results/{sessionId} [get]
func (h *AdvisorHandler) Result(c *gin.Context) {
	result, ok := h.authorizedResult(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Export godoc
// @Summary Download the ranked combinations of a completed session
// @Tags Advisor
// @Produce octet-stream
// @Param sessionId path string true "Session ID"
// @Param format query string false "csv, pdf or xlsx" Enums(csv, pdf, xlsx)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /advisor/results/{sessionId}/export [get]
func (h *AdvisorHandler) Export(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(service.ExportFormatCSV)))))
	result, ok := h.authorizedResult(c)
	if !ok {
		return
	}
	file, err := h.renderer.Render(result, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.ContentType, file.Filename, file.Payload)
}

func (h *AdvisorHandler) authorizedResult(c *gin.Context) (*dto.AdvisorResult, bool) {
	result, err := h.service.Result(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if claims := claimsFromContext(c); claims != nil && !claims.CanActFor(result.StudentID) {
		response.Error(c, appErrors.ErrForbidden)
		return nil, false
	}
	return result, true
}
