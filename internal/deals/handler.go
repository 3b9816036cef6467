package deals

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fundbridge-kh/fundbridge/internal/authz"
	"github.com/fundbridge-kh/fundbridge/internal/platform/httpx"
	"github.com/fundbridge-kh/fundbridge/internal/shared"
)

// Handler serves deal endpoints. Every route resolves an authorization
// decision before its handler runs; response masking happens in the router's
// masking middleware, so handlers emit clear records.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	mw       authz.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		mw:       mw,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers deal routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(authz.ResourceDeal, authz.ActionRead))
		r.Get("/", h.list)
	})
	r.Get("/mine", h.listMine)
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireOwned(authz.ResourceDeal, authz.ActionRead, h.ownerOf))
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(authz.ResourceDeal, authz.ActionCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireOwned(authz.ResourceDeal, authz.ActionUpdate, h.ownerOf))
		r.Patch("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(authz.ResourceDeal, authz.ActionApprove))
		r.Post("/{id}/approve", h.approve)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(authz.ResourceDeal, authz.ActionClose))
		r.Post("/{id}/close", h.close)
	})
}

// ownerOf loads the owning SME of the deal addressed by the request.
func (h *Handler) ownerOf(r *http.Request) (string, error) {
	ownerID, err := h.service.OwnerID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", httpx.ErrNotFound
		}
		return "", err
	}
	return ownerID, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	list, pagination, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, "list deals", err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.Envelope{Data: emptyIfNil(list), Pagination: pagination})
}

// listMine serves an SME's own listings; ownership is the actor itself so
// the owner-qualified deal.read grant applies.
func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	role, err := authz.ParseRole(actor.Role)
	if err != nil || !h.mw.Engine.CanPerform(role, authz.ResourceDeal, authz.ActionRead, true, actor.ID) {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
		return
	}
	page, perPage := pageParams(r)
	list, pagination, err := h.service.ListByOwner(r.Context(), actor.ID, page, perPage)
	if err != nil {
		h.fail(w, "list own deals", err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.Envelope{Data: emptyIfNil(list), Pagination: pagination})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	deal, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get deal", err)
		return
	}
	httpx.JSON(w, http.StatusOK, deal)
}

type dealRequest struct {
	SmeID            string  `json:"smeId"`
	Title            string  `json:"title" validate:"required,max=200"`
	Sector           string  `json:"sector" validate:"max=100"`
	FundingRequired  float64 `json:"fundingRequired" validate:"gte=0"`
	EquityPercentage float64 `json:"equityPercentage" validate:"gte=0,lte=100"`
	ContactEmail     string  `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone     string  `json:"contactPhone" validate:"max=32"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := shared.ActorFromContext(r.Context())
	smeID := req.SmeID
	if actor.Role == string(authz.RoleSME) || smeID == "" {
		// SMEs always list for themselves; advisors may list on behalf.
		smeID = actor.ID
	}
	deal, err := h.service.Create(r.Context(), CreateInput{
		SmeID:            smeID,
		Title:            req.Title,
		Sector:           req.Sector,
		FundingRequired:  req.FundingRequired,
		EquityPercentage: req.EquityPercentage,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
	})
	if err != nil {
		h.fail(w, "create deal", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, deal)
}

// update replaces the full set of mutable fields. Clients send the complete
// representation; an omitted field clears the stored value, which is why the
// request is validated like a create.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	deal, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		Title:            req.Title,
		Sector:           req.Sector,
		FundingRequired:  req.FundingRequired,
		EquityPercentage: req.EquityPercentage,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
	})
	if err != nil {
		h.fail(w, "update deal", err)
		return
	}
	httpx.JSON(w, http.StatusOK, deal)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Approve(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "approve deal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "close deal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, shared.ErrDuplicate):
		httpx.Problem(w, http.StatusConflict, "Duplicate", "")
	case errors.Is(err, ErrStatus):
		httpx.Problem(w, http.StatusConflict, "Conflict", "invalid status transition")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	return page, perPage
}

func emptyIfNil(list []Deal) []Deal {
	if list == nil {
		return []Deal{}
	}
	return list
}
