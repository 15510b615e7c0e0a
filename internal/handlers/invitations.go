package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakeenah/sakeenah/internal/models"
	"github.com/sakeenah/sakeenah/internal/services"
	appErrors "github.com/sakeenah/sakeenah/pkg/errors"
	"github.com/sakeenah/sakeenah/pkg/metrics"
	"github.com/sakeenah/sakeenah/pkg/response"
)

// InvitationHandler serves invitation payloads for the public site.
type InvitationHandler struct {
	invitations *services.InvitationService
	defaultUID  string
}

// NewInvitationHandler constructs the handler. defaultUID is the deployment
// fallback used when a request carries no usable uid of its own.
func NewInvitationHandler(invitations *services.InvitationService, defaultUID string) (*InvitationHandler, error) {
	if invitations == nil {
		return nil, errors.New("invitation handler: invitation service is required")
	}
	return &InvitationHandler{invitations: invitations, defaultUID: defaultUID}, nil
}

// invitationResponse is the wire shape consumed by the front-end. Field names
// stay camelCase for compatibility with existing clients.
type invitationResponse struct {
	UID         string          `json:"uid"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	GroomName   string          `json:"groomName"`
	BrideName   string          `json:"brideName"`
	ParentGroom string          `json:"parentGroom,omitempty"`
	ParentBride string          `json:"parentBride,omitempty"`
	WeddingDate string          `json:"weddingDate"`
	Time        string          `json:"time,omitempty"`
	Location    string          `json:"location,omitempty"`
	Address     string          `json:"address,omitempty"`
	MapsURL     string          `json:"mapsUrl,omitempty"`
	MapsEmbed   string          `json:"mapsEmbed,omitempty"`
	OGImage     string          `json:"ogImage,omitempty"`
	Favicon     string          `json:"favicon,omitempty"`
	Audio       json.RawMessage `json:"audio,omitempty"`
	Agenda      []agendaItem    `json:"agenda"`
	Banks       []bankAccount   `json:"banks"`
}

type agendaItem struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime,omitempty"`
	Location  string `json:"location,omitempty"`
	Address   string `json:"address,omitempty"`
}

type bankAccount struct {
	Bank          string `json:"bank"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

func newInvitationResponse(inv *models.Invitation) invitationResponse {
	resp := invitationResponse{
		UID:         inv.UID,
		Title:       inv.Title,
		Description: inv.Description,
		GroomName:   inv.GroomName,
		BrideName:   inv.BrideName,
		ParentGroom: inv.ParentGroom,
		ParentBride: inv.ParentBride,
		WeddingDate: inv.WeddingDate,
		Time:        inv.Time,
		Location:    inv.Location,
		Address:     inv.Address,
		MapsURL:     inv.MapsURL,
		MapsEmbed:   inv.MapsEmbed,
		OGImage:     inv.OGImage,
		Favicon:     inv.Favicon,
		Agenda:      make([]agendaItem, 0, len(inv.Agenda)),
		Banks:       make([]bankAccount, 0, len(inv.Banks)),
	}

	if len(inv.Audio) > 0 {
		resp.Audio = json.RawMessage(inv.Audio)
	}

	for _, item := range inv.Agenda {
		resp.Agenda = append(resp.Agenda, agendaItem{
			Title:     item.Title,
			Date:      item.Date,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			Location:  item.Location,
			Address:   item.Address,
		})
	}

	for _, bank := range inv.Banks {
		resp.Banks = append(resp.Banks, bankAccount{
			Bank:          bank.Bank,
			AccountNumber: bank.AccountNumber,
			AccountName:   bank.AccountName,
		})
	}

	return resp
}

// Get resolves and returns one invitation with agenda and bank accounts.
// The uid may come from the path, a ?uid= query parameter, or fall back to
// the configured default.
func (h *InvitationHandler) Get(c *gin.Context) {
	resolver, err := services.NewResolver(h.invitations, "", h.defaultUID)
	if err != nil {
		response.Error(c, err)
		return
	}

	invitation, err := resolver.Resolve(requestContext(c), services.ResolveSources{
		Path:  c.Param("uid"),
		Query: c.Query("uid"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInvitationUID):
			metrics.InvitationLookups.WithLabelValues("miss").Inc()
			response.Error(c, appErrors.New("INVALID_FORMAT", "invitation uid must be lowercase alphanumeric with hyphens", http.StatusBadRequest))
		case errors.Is(err, services.ErrInvitationNotFound):
			metrics.InvitationLookups.WithLabelValues("miss").Inc()
			response.Error(c, appErrors.ErrInvitationNotFound)
		default:
			response.Error(c, err)
		}
		return
	}

	metrics.InvitationLookups.WithLabelValues("hit").Inc()
	response.Success(c, http.StatusOK, newInvitationResponse(invitation))
}
