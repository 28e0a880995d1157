package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/service"
)

// PaginationConfig bounds the list endpoint
type PaginationConfig struct {
	DefaultLimit int
	MaxLimit     int
}

type RegistrationHandler struct {
	svc        service.RegistrationService
	pagination PaginationConfig
}

func NewRegistrationHandler(svc service.RegistrationService, pagination PaginationConfig) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, pagination: pagination}
}

type registrationJSON struct {
	ID                 string  `json:"id"`
	Username           string  `json:"username"`
	Email              string  `json:"email"`
	Status             string  `json:"status"`
	CreateDate         int64   `json:"create_date"`
	ApprovalDate       *int64  `json:"approval_date,omitempty"`
	ApprovedByUsername *string `json:"approved_by_username,omitempty"`
	Message            *string `json:"message,omitempty"`
}

type registrationListJSON struct {
	Total         int                `json:"total"`
	Registrations []registrationJSON `json:"registrations"`
}

func toRegistrationJSON(s domain.RegistrationSummary) registrationJSON {
	out := registrationJSON{
		ID:                 s.ID,
		Username:           s.Username,
		Email:              s.Email,
		Status:             string(s.Status),
		CreateDate:         s.CreateDate.UnixMilli(),
		ApprovedByUsername: s.ApprovedByUsername,
		Message:            s.Message,
	}
	if s.ApprovalDate != nil {
		ms := s.ApprovalDate.UnixMilli()
		out.ApprovalDate = &ms
	}
	return out
}

// Submit handles PUT /user/registration
func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	values, err := params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := service.SubmitRegistrationInput{
		Username: values.Get("username"),
		Password: values.Get("password"),
		Email:    values.Get("email"),
		Message:  optional(values, "message"),
	}
	if err := h.svc.Submit(r.Context(), PrincipalFromContext(r.Context()), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// List handles GET /user/registration
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	values, err := params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit, err := optionalInt(values, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := optionalInt(values, "offset")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sortColumn, err := optionalInt(values, "sort_column")
	if err != nil {
		writeError(w, r, err)
		return
	}
	asc, err := optionalBool(values, "asc")
	if err != nil {
		writeError(w, r, err)
		return
	}

	criteria := domain.RegistrationCriteria{Search: values.Get("search")}
	if status := optional(values, "status"); status != nil {
		s := domain.RegistrationStatus(*status)
		criteria.Status = &s
	}

	var sort *domain.SortSpec
	if sortColumn != nil {
		sort = &domain.SortSpec{Column: *sortColumn, Asc: asc == nil || *asc}
	}

	page, err := h.svc.List(r.Context(), PrincipalFromContext(r.Context()), criteria, sort, h.pageRequest(limit, offset))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := registrationListJSON{Total: page.Total, Registrations: make([]registrationJSON, 0, len(page.Items))}
	for _, item := range page.Items {
		out.Registrations = append(out.Registrations, toRegistrationJSON(item))
	}
	writeJSON(w, http.StatusOK, out)
}

// pageRequest applies the default limit, clamps it to the maximum and floors the offset at zero.
func (h *RegistrationHandler) pageRequest(limit, offset *int) domain.PageRequest {
	page := domain.PageRequest{Limit: h.pagination.DefaultLimit}
	if limit != nil && *limit > 0 {
		page.Limit = *limit
	}
	if h.pagination.MaxLimit > 0 && page.Limit > h.pagination.MaxLimit {
		page.Limit = h.pagination.MaxLimit
	}
	if offset != nil && *offset > 0 {
		page.Offset = *offset
	}
	return page
}

// Get handles GET /user/registration/{id}
func (h *RegistrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	summary, err := h.svc.Get(r.Context(), PrincipalFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationJSON(*summary))
}

// Approve handles POST /user/registration/{id}/approve
func (h *RegistrationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	values, err := params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	quota, err := optionalInt64(values, "storage_quota")
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := service.ApproveInput{Message: optional(values, "message"), StorageQuota: quota}
	if err := h.svc.Approve(r.Context(), PrincipalFromContext(r.Context()), mux.Vars(r)["id"], in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

// Reject handles POST /user/registration/{id}/reject
func (h *RegistrationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	values, err := params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.Reject(r.Context(), PrincipalFromContext(r.Context()), mux.Vars(r)["id"], optional(values, "message")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

