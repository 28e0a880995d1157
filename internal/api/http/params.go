package http

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"docs-approval-backend/internal/domain"
)

const maxBodyBytes = 1 << 20

// params reads request parameters from the query string and from either a
// form-encoded or a JSON object body. Body values win over query values.
func params(r *http.Request) (url.Values, error) {
	values := url.Values{}
	for k, v := range r.URL.Query() {
		values[k] = v
	}
	if r.Body == nil || r.Method == http.MethodGet {
		return values, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body map[string]any
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, domain.NewValidationError("Request body must be a JSON object")
		}
		for k, v := range body {
			switch val := v.(type) {
			case nil:
				continue
			case string:
				values.Set(k, val)
			case json.Number:
				values.Set(k, val.String())
			case bool:
				values.Set(k, strconv.FormatBool(val))
			default:
				return nil, domain.NewValidationError("validation failed").WithDetail(k, "must be a scalar value")
			}
		}
	default:
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, domain.NewValidationError("Malformed form body")
		}
		for k, v := range r.PostForm {
			values[k] = v
		}
	}
	return values, nil
}

// optional returns nil for an absent or blank parameter.
func optional(values url.Values, key string) *string {
	if _, ok := values[key]; !ok {
		return nil
	}
	v := values.Get(key)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func optionalInt64(values url.Values, key string) (*int64, error) {
	raw := optional(values, key)
	if raw == nil {
		return nil, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*raw), 10, 64)
	if err != nil {
		return nil, domain.NewValidationError("validation failed").WithDetail(key, "must be an integer")
	}
	return &n, nil
}

func optionalInt(values url.Values, key string) (*int, error) {
	n, err := optionalInt64(values, key)
	if err != nil || n == nil {
		return nil, err
	}
	i := int(*n)
	return &i, nil
}

func optionalBool(values url.Values, key string) (*bool, error) {
	raw := optional(values, key)
	if raw == nil {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(*raw))
	if err != nil {
		return nil, domain.NewValidationError("validation failed").WithDetail(key, "must be a boolean")
	}
	return &b, nil
}

func required(values url.Values, keys ...string) error {
	var appErr *domain.AppError
	for _, key := range keys {
		if strings.TrimSpace(values.Get(key)) == "" {
			if appErr == nil {
				appErr = domain.NewValidationError(fmt.Sprintf("%s is required", key))
			}
			appErr.WithDetail(key, "is required")
		}
	}
	if appErr == nil {
		return nil
	}
	return appErr
}
