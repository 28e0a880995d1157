package http_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docs-approval-backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestTranslationHandler_Start(t *testing.T) {
	form := url.Values{"id": {"f1"}, "source_language": {"en"}, "target_language": {"fr"}}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("Configured").Return(true)
		f.trans.On("CheckFileAccess", mock.Anything, userPrincipal, "f1").Return(&domain.File{ID: "f1", UserID: "user-1"}, nil)
		f.trans.On("Submit", mock.Anything, "f1", "en", "fr", "user-1").Return("FLOW-1", true)

		rec := f.do(http.MethodPost, "/file/translate/start", "user-token", form)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "FLOW-1", body["flow_number"])
	})

	t.Run("MissingParams", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/file/translate/start", "user-token", url.Values{"id": {"f1"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		details := body["details"].(map[string]any)
		assert.Contains(t, details, "source_language")
		assert.Contains(t, details, "target_language")
	})

	t.Run("NotConfigured", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("Configured").Return(false)

		rec := f.do(http.MethodPost, "/file/translate/start", "user-token", form)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "ConfigError", decode(t, rec)["type"])
		f.trans.AssertNotCalled(t, "CheckFileAccess", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Forbidden", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("Configured").Return(true)
		f.trans.On("CheckFileAccess", mock.Anything, userPrincipal, "f1").Return(nil, domain.NewForbiddenError("Access denied"))

		rec := f.do(http.MethodPost, "/file/translate/start", "user-token", form)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("VendorFailure", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("Configured").Return(true)
		f.trans.On("CheckFileAccess", mock.Anything, userPrincipal, "f1").Return(&domain.File{ID: "f1", UserID: "user-1"}, nil)
		f.trans.On("Submit", mock.Anything, "f1", "en", "fr", "user-1").Return("", false)

		rec := f.do(http.MethodPost, "/file/translate/start", "user-token", form)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "TranslationError", decode(t, rec)["type"])
	})
}

func TestTranslationHandler_Status(t *testing.T) {
	t.Run("Completed", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("PollStatus", mock.Anything, "FLOW-1").
			Return(&domain.TranslationStatus{ErrorCode: "0", Status: 4, StatusString: "done"}, true)

		rec := f.do(http.MethodGet, "/file/translate/status?flow_number=FLOW-1", "user-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, float64(4), body["status_code"])
		assert.Equal(t, "Completed", body["status_text"])
		assert.Equal(t, "done", body["status_message"])
	})

	t.Run("FileDeleted", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("PollStatus", mock.Anything, "FLOW-2").
			Return(&domain.TranslationStatus{ErrorCode: "0", Status: -11}, true)

		rec := f.do(http.MethodGet, "/file/translate/status?flow_number=FLOW-2", "user-token", nil)
		assert.Equal(t, "File deleted", decode(t, rec)["status_text"])
	})

	t.Run("VendorErrorCode", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("PollStatus", mock.Anything, "FLOW-3").Return(&domain.TranslationStatus{ErrorCode: "411"}, true)

		rec := f.do(http.MethodGet, "/file/translate/status?flow_number=FLOW-3", "user-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "411", body["error_code"])
	})

	t.Run("Failure", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("PollStatus", mock.Anything, "FLOW-4").Return(nil, false)

		rec := f.do(http.MethodGet, "/file/translate/status?flow_number=FLOW-4", "user-token", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "TranslationError", decode(t, rec)["type"])
	})
}

func TestTranslationHandler_Download(t *testing.T) {
	cases := []struct {
		name     string
		fileName *string
		query    string
		want     string
	}{
		{"WithExtension", strPtr("report.pdf"), "&target_language=fr", `attachment; filename="report_fr.pdf"`},
		{"WithoutExtension", strPtr("notes"), "&target_language=de", `attachment; filename="notes_de"`},
		{"LeadingDot", strPtr(".bashrc"), "&target_language=de", `attachment; filename=".bashrc_de"`},
		{"MissingName", nil, "&target_language=fr", `attachment; filename="translated_file"`},
		{"LanguageDefaultsToFileType", strPtr("report.pdf"), "", `attachment; filename="report_pdf.pdf"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.trans.On("CheckFileAccess", mock.Anything, userPrincipal, "f1").Return(&domain.File{ID: "f1", UserID: "user-1", Name: tc.fileName}, nil)
			f.trans.On("Download", mock.Anything, "FLOW-1", "pdf").Return([]byte("%PDF-1.7"), true)

			rec := f.do(http.MethodGet, "/file/translate/download?flow_number=FLOW-1&file_type=pdf&file_id=f1"+tc.query, "user-token", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.want, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, "%PDF-1.7", rec.Body.String())
		})
	}

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("CheckFileAccess", mock.Anything, userPrincipal, "f9").Return(nil, domain.NewNotFoundError(domain.ErrTypeNotFound, "File not found"))

		rec := f.do(http.MethodGet, "/file/translate/download?flow_number=FLOW-1&file_type=pdf&file_id=f9", "user-token", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		f.trans.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("VendorFailure", func(t *testing.T) {
		f := newFixture(t)
		f.trans.On("CheckFileAccess", mock.Anything, userPrincipal, "f1").Return(&domain.File{ID: "f1"}, nil)
		f.trans.On("Download", mock.Anything, "FLOW-1", "pdf").Return(nil, false)

		rec := f.do(http.MethodGet, "/file/translate/download?flow_number=FLOW-1&file_type=pdf&file_id=f1", "user-token", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "TranslationError", decode(t, rec)["type"])
	})
}

func TestTranslationHandler_Languages(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/file/translate/languages", "user-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	langs := decode(t, rec)["languages"].([]any)
	require.Len(t, langs, len(domain.SupportedLanguages))
	first := langs[0].(map[string]any)
	assert.Equal(t, "zh-CHS", first["code"])
	assert.Equal(t, "Chinese", first["name"])
}
