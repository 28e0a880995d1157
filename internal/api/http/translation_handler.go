package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/service"
)

type TranslationHandler struct {
	svc service.TranslationService
}

func NewTranslationHandler(svc service.TranslationService) *TranslationHandler {
	return &TranslationHandler{svc: svc}
}

type startResponse struct {
	Status     string `json:"status"`
	FlowNumber string `json:"flow_number"`
}

type statusOKResponse struct {
	Status        string `json:"status"`
	StatusCode    int    `json:"status_code"`
	StatusText    string `json:"status_text"`
	StatusMessage string `json:"status_message"`
}

type statusErrorResponse struct {
	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
}

type languagesResponse struct {
	Languages []domain.Language `json:"languages"`
}

func translationFailed(message string) error {
	return domain.NewServerError(domain.ErrTypeTranslation, message, nil)
}

// Start handles POST /file/translate/start
func (h *TranslationHandler) Start(w http.ResponseWriter, r *http.Request) {
	values, err := params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := required(values, "id", "source_language", "target_language"); err != nil {
		writeError(w, r, err)
		return
	}
	if !h.svc.Configured() {
		writeError(w, r, domain.NewServerError(domain.ErrTypeConfig, "Translation API not configured", nil))
		return
	}

	principal := PrincipalFromContext(r.Context())
	file, err := h.svc.CheckFileAccess(r.Context(), principal, values.Get("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	flowNumber, ok := h.svc.Submit(r.Context(), file.ID, values.Get("source_language"), values.Get("target_language"), principal.UserID)
	if !ok {
		writeError(w, r, translationFailed("Error starting translation"))
		return
	}
	writeJSON(w, http.StatusOK, startResponse{Status: "ok", FlowNumber: flowNumber})
}

// Status handles GET /file/translate/status
func (h *TranslationHandler) Status(w http.ResponseWriter, r *http.Request) {
	values, err := params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := required(values, "flow_number"); err != nil {
		writeError(w, r, err)
		return
	}

	status, ok := h.svc.PollStatus(r.Context(), values.Get("flow_number"))
	if !ok {
		writeError(w, r, translationFailed("Error checking translation status"))
		return
	}
	if !status.OK() {
		writeJSON(w, http.StatusOK, statusErrorResponse{Status: "error", ErrorCode: status.ErrorCode})
		return
	}
	writeJSON(w, http.StatusOK, statusOKResponse{
		Status:        "ok",
		StatusCode:    status.Status,
		StatusText:    domain.StatusText(status.Status),
		StatusMessage: status.StatusString,
	})
}

// Download handles GET /file/translate/download
func (h *TranslationHandler) Download(w http.ResponseWriter, r *http.Request) {
	values, err := params(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := required(values, "flow_number", "file_type", "file_id"); err != nil {
		writeError(w, r, err)
		return
	}

	file, err := h.svc.CheckFileAccess(r.Context(), PrincipalFromContext(r.Context()), values.Get("file_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	fileType := values.Get("file_type")
	targetLanguage := values.Get("target_language")
	if targetLanguage == "" {
		targetLanguage = fileType
	}

	content, ok := h.svc.Download(r.Context(), values.Get("flow_number"), fileType)
	if !ok || len(content) == 0 {
		writeError(w, r, translationFailed("Error downloading translated file"))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, translatedFileName(file.Name, targetLanguage)))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// Languages handles GET /file/translate/languages
func (h *TranslationHandler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, languagesResponse{Languages: domain.SupportedLanguages})
}

// translatedFileName inserts the language before the extension: report.pdf becomes report_fr.pdf.
func translatedFileName(name *string, language string) string {
	if name == nil {
		return "translated_file"
	}
	n := strings.ReplaceAll(*name, `"`, "")
	if dot := strings.LastIndex(n, "."); dot > 0 {
		return n[:dot] + "_" + language + n[dot:]
	}
	return n + "_" + language
}
