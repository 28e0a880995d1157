package translator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/metrics"
)

const (
	serviceName    = "youdao"
	DefaultBaseURL = "https://openapi.youdao.com"

	uploadPath   = "/file_trans/upload"
	queryPath    = "/file_trans/query"
	downloadPath = "/file_trans/download"
)

var ErrNotConfigured = errors.New("translation API not configured")

// VendorError is a well-formed vendor response carrying a non-zero error code.
type VendorError struct {
	Operation string
	Code      string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("%s rejected by vendor: errorCode=%s", e.Operation, e.Code)
}

type Config struct {
	AppKey    string
	AppSecret string
	BaseURL   string
	Timeout   time.Duration
}

// Client speaks the vendor's file translation protocol
type Client struct {
	appKey     string
	appSecret  string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
	newSalt    func() string
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		appKey:    cfg.AppKey,
		appSecret: cfg.AppSecret,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now:     time.Now,
		newSalt: uuid.NewString,
	}
}

// Configured reports whether both vendor credentials are present
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.appKey) != "" && strings.TrimSpace(c.appSecret) != ""
}

type UploadRequest struct {
	Content  []byte
	FileName string
	FileType string
	From     string
	To       string
}

type uploadResponse struct {
	ErrorCode  string `json:"errorCode"`
	FlowNumber string `json:"flownumber"`
}

type errorResponse struct {
	ErrorCode string `json:"errorCode"`
}

// Upload submits a document and returns the vendor job handle
func (c *Client) Upload(ctx context.Context, req UploadRequest) (string, error) {
	q := base64.StdEncoding.EncodeToString(req.Content)
	params := url.Values{}
	params.Set("q", q)
	params.Set("fileName", req.FileName)
	params.Set("fileType", req.FileType)
	params.Set("langFrom", req.From)
	params.Set("langTo", req.To)

	var resp uploadResponse
	err := c.call(ctx, "upload", uploadPath, q, params, func(body []byte, _ string) error {
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("failed to decode upload response: %w", err)
		}
		if resp.ErrorCode != "0" {
			return &VendorError{Operation: "upload", Code: resp.ErrorCode}
		}
		if resp.FlowNumber == "" {
			return errors.New("upload response carries no flow number")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return resp.FlowNumber, nil
}

// Query fetches the status of a translation job. Vendor error codes are
// returned in the status rather than as errors.
func (c *Client) Query(ctx context.Context, flowNumber string) (*domain.TranslationStatus, error) {
	params := url.Values{}
	params.Set("flownumber", flowNumber)

	var status domain.TranslationStatus
	err := c.call(ctx, "query", queryPath, flowNumber, params, func(body []byte, _ string) error {
		if err := json.Unmarshal(body, &status); err != nil {
			return fmt.Errorf("failed to decode query response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Download fetches the translated document bytes
func (c *Client) Download(ctx context.Context, flowNumber, downloadFileType string) ([]byte, error) {
	params := url.Values{}
	params.Set("flownumber", flowNumber)
	params.Set("downloadFileType", downloadFileType)

	var content []byte
	err := c.call(ctx, "download", downloadPath, flowNumber, params, func(body []byte, contentType string) error {
		if strings.Contains(contentType, "application/json") {
			var resp errorResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to decode download error: %w", err)
			}
			return &VendorError{Operation: "download", Code: resp.ErrorCode}
		}
		content = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (c *Client) call(ctx context.Context, operation, path, signInput string, params url.Values, handle func(body []byte, contentType string) error) (err error) {
	if !c.Configured() {
		logger.Error("Translation API not configured", "operation", operation)
		return ErrNotConfigured
	}

	logger.ExternalServiceCall(serviceName, operation, "path", path)
	start := time.Now()
	defer func() {
		metrics.RecordTranslationCall(operation, err, time.Since(start))
		logger.ExternalServiceResult(serviceName, operation, err, "duration_ms", time.Since(start).Milliseconds())
	}()

	c.sign(params, signInput)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fmt.Errorf("failed to read %s response: %w", operation, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s request failed with status %d", operation, resp.StatusCode)
	}
	return handle(buf.Bytes(), resp.Header.Get("Content-Type"))
}

// sign adds the common authentication parameters, signing over signInput.
func (c *Client) sign(params url.Values, signInput string) {
	salt := c.newSalt()
	curtime := strconv.FormatInt(c.now().Unix(), 10)
	params.Set("appKey", c.appKey)
	params.Set("salt", salt)
	params.Set("curtime", curtime)
	params.Set("sign", Sign(c.appKey, signInput, salt, curtime, c.appSecret))
	params.Set("docType", "json")
	params.Set("signType", "v3")
}

// Sign computes the v3 request signature:
// upper-case hex SHA-256 of appKey + Truncate(q) + salt + curtime + appSecret.
func Sign(appKey, q, salt, curtime, appSecret string) string {
	sum := sha256.Sum256([]byte(appKey + Truncate(q) + salt + curtime + appSecret))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Truncate shortens the signed input: inputs over 20 characters become the
// first 10 characters, the length, then the last 10 characters.
func Truncate(q string) string {
	runes := []rune(q)
	n := len(runes)
	if n <= 20 {
		return q
	}
	return string(runes[:10]) + strconv.Itoa(n) + string(runes[n-10:])
}

// FileTypeFor maps a stored MIME type to the vendor's file type.
func FileTypeFor(mimeType string) (string, bool) {
	switch {
	case mimeType == "":
		return "", false
	case strings.Contains(mimeType, "word"), strings.Contains(mimeType, "docx"), strings.Contains(mimeType, "doc"):
		return "docx", true
	case strings.Contains(mimeType, "pdf"):
		return "pdf", true
	case strings.Contains(mimeType, "powerpoint"), strings.Contains(mimeType, "ppt"):
		return "pptx", true
	case strings.Contains(mimeType, "excel"), strings.Contains(mimeType, "xlsx"):
		return "xlsx", true
	case strings.Contains(mimeType, "jpg"), strings.Contains(mimeType, "jpeg"):
		return "jpg", true
	case strings.Contains(mimeType, "png"):
		return "png", true
	case strings.Contains(mimeType, "bmp"):
		return "bmp", true
	}
	return "", false
}
