package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sakeenah/sakeenah/internal/models"
	"github.com/sakeenah/sakeenah/internal/services"
	appErrors "github.com/sakeenah/sakeenah/pkg/errors"
	"github.com/sakeenah/sakeenah/pkg/metrics"
	"github.com/sakeenah/sakeenah/pkg/response"
	appValidator "github.com/sakeenah/sakeenah/pkg/validator"
)

const (
	defaultWishLimit = 50
	maxWishLimit     = 100
)

// WishHandler serves the guest wish endpoints for one invitation.
type WishHandler struct {
	wishes      *services.WishService
	invitations *services.InvitationService
}

// NewWishHandler constructs the handler.
func NewWishHandler(wishes *services.WishService, invitations *services.InvitationService) (*WishHandler, error) {
	if wishes == nil {
		return nil, errors.New("wish handler: wish service is required")
	}
	if invitations == nil {
		return nil, errors.New("wish handler: invitation service is required")
	}
	return &WishHandler{wishes: wishes, invitations: invitations}, nil
}

type submitWishRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Message    string `json:"message" validate:"required,max=2000"`
	Attendance string `json:"attendance" validate:"omitempty,oneof=ATTENDING NOT_ATTENDING MAYBE"`
}

type wishResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Message    string    `json:"message"`
	Attendance string    `json:"attendance"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newWishResponse(w *models.Wish) wishResponse {
	return wishResponse{
		ID:         w.ID,
		Name:       w.Name,
		Message:    w.Message,
		Attendance: string(w.Attendance),
		CreatedAt:  w.CreatedAt,
	}
}

// invitationUID extracts and validates the uid path segment. On failure it
// writes a 400 response and returns false.
func invitationUID(c *gin.Context) (string, bool) {
	uid := strings.TrimSpace(c.Param("uid"))
	if uid == "" || !appValidator.IsSlug(uid) {
		response.Error(c, appErrors.New("INVALID_FORMAT", "invitation uid must be lowercase alphanumeric with hyphens", http.StatusBadRequest))
		return "", false
	}
	return uid, true
}

// List returns wishes newest first with pagination metadata.
func (h *WishHandler) List(c *gin.Context) {
	uid, ok := invitationUID(c)
	if !ok {
		return
	}

	limit := parseIntQuery(c, "limit", defaultWishLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxWishLimit {
		limit = maxWishLimit
	}

	offset := parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	wishes, total, err := h.wishes.List(requestContext(c), uid, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]wishResponse, 0, len(wishes))
	for i := range wishes {
		items = append(items, newWishResponse(&wishes[i]))
	}

	response.SuccessWithPagination(c, http.StatusOK, items, &response.Pagination{
		Total:  int(total),
		Limit:  limit,
		Offset: offset,
	})
}

// Submit stores a new wish for the invitation. Each guest name may submit
// exactly once.
func (h *WishHandler) Submit(c *gin.Context) {
	uid, ok := invitationUID(c)
	if !ok {
		return
	}

	var req submitWishRequest
	if !bindAndValidate(c, &req) {
		metrics.WishSubmissions.WithLabelValues("invalid").Inc()
		return
	}

	wish, err := h.wishes.Submit(requestContext(c), uid, services.SubmitWishInput{
		Name:       req.Name,
		Message:    req.Message,
		Attendance: req.Attendance,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			metrics.WishSubmissions.WithLabelValues("invalid").Inc()
			response.Error(c, appErrors.NewValidation(trimServicePrefix(err, services.ErrInvalidInput)))
		case errors.Is(err, services.ErrDuplicateWish):
			metrics.WishSubmissions.WithLabelValues("duplicate").Inc()
			response.Error(c, appErrors.ErrDuplicateWish)
		default:
			metrics.WishSubmissions.WithLabelValues("error").Inc()
			response.Error(c, err)
		}
		return
	}

	metrics.WishSubmissions.WithLabelValues("created").Inc()
	response.Success(c, http.StatusCreated, newWishResponse(wish))
}

// Delete removes one wish belonging to the invitation.
func (h *WishHandler) Delete(c *gin.Context) {
	uid, ok := invitationUID(c)
	if !ok {
		return
	}

	wishID := strings.TrimSpace(c.Param("id"))
	if wishID == "" {
		response.Error(c, appErrors.NewBadRequest("wish id is required"))
		return
	}

	if err := h.wishes.Delete(requestContext(c), uid, wishID); err != nil {
		if errors.Is(err, services.ErrWishNotFound) {
			response.Error(c, appErrors.ErrWishNotFound)
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, nil)
}

// Check reports whether a guest name has already submitted a wish.
func (h *WishHandler) Check(c *gin.Context) {
	uid, ok := invitationUID(c)
	if !ok {
		return
	}

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		response.Error(c, appErrors.NewBadRequest("name query parameter is required"))
		return
	}

	submitted, err := h.wishes.CheckSubmitted(requestContext(c), uid, name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"has_submitted": submitted})
}

// Stats returns attendance counts for the invitation.
func (h *WishHandler) Stats(c *gin.Context) {
	uid, ok := invitationUID(c)
	if !ok {
		return
	}

	stats, err := h.wishes.Stats(requestContext(c), uid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// Export streams all wishes for the invitation as a CSV attachment.
func (h *WishHandler) Export(c *gin.Context) {
	uid, ok := invitationUID(c)
	if !ok {
		return
	}

	ctx := requestContext(c)
	exists, err := h.invitations.Exists(ctx, uid)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !exists {
		response.Error(c, appErrors.ErrInvitationNotFound)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "wishes-"+uid+".csv"))
	c.Status(http.StatusOK)

	if err := h.wishes.ExportCSV(ctx, uid, c.Writer); err != nil {
		// Headers are already out; nothing useful can be written back.
		_ = c.Error(err)
	}
}

// trimServicePrefix strips the sentinel prefix so clients get the field-level
// message only.
func trimServicePrefix(err, sentinel error) string {
	msg := err.Error()
	msg = strings.TrimPrefix(msg, sentinel.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return "invalid request payload"
	}
	return msg
}
