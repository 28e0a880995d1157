package translator

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{AppKey: "key", AppSecret: "secret", BaseURL: srv.URL, Timeout: 5 * time.Second})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	c.newSalt = func() string { return "salt" }
	return c
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", ""},
		{"Len19", "abcdefghijklmnopqrs", "abcdefghijklmnopqrs"},
		{"Len20", "abcdefghijklmnopqrst", "abcdefghijklmnopqrst"},
		{"Len21", "abcdefghijklmnopqrstu", "abcdefghij21lmnopqrstu"},
		{"Len22", "abcdefghijklmnopqrstuv", "abcdefghij22mnopqrstuv"},
		{"CountsCharacters", strings.Repeat("文", 21), strings.Repeat("文", 10) + "21" + strings.Repeat("文", 10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Truncate(tc.in))
		})
	}
}

func TestSign(t *testing.T) {
	q := "abcdefghijklmnopqrstuvwxyz"
	sum := sha256.Sum256([]byte("key" + "abcdefghij26qrstuvwxyz" + "salt" + "1700000000" + "secret"))
	want := strings.ToUpper(hex.EncodeToString(sum[:]))

	got := Sign("key", q, "salt", "1700000000", "secret")
	assert.Equal(t, want, got)
	assert.Len(t, got, 64)
	assert.Equal(t, strings.ToUpper(got), got)
}

func TestFileTypeFor(t *testing.T) {
	cases := map[string]string{
		"application/msword":            "docx",
		"application/pdf":               "pdf",
		"application/vnd.ms-powerpoint": "pptx",
		"application/vnd.ms-excel":      "xlsx",
		"image/jpeg":                    "jpg",
		"image/png":                     "png",
		"image/bmp":                     "bmp",
	}
	for mime, want := range cases {
		got, ok := FileTypeFor(mime)
		assert.True(t, ok, mime)
		assert.Equal(t, want, got, mime)
	}

	for _, mime := range []string{"", "text/plain", "video/mp4"} {
		_, ok := FileTypeFor(mime)
		assert.False(t, ok, mime)
	}
}

func TestClient_Upload(t *testing.T) {
	content := []byte("hello world")
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, uploadPath, r.URL.Path)
		require.NoError(t, r.ParseForm())
		q := base64.StdEncoding.EncodeToString(content)
		assert.Equal(t, q, r.PostForm.Get("q"))
		assert.Equal(t, "report.pdf", r.PostForm.Get("fileName"))
		assert.Equal(t, "pdf", r.PostForm.Get("fileType"))
		assert.Equal(t, "en", r.PostForm.Get("langFrom"))
		assert.Equal(t, "zh-CHS", r.PostForm.Get("langTo"))
		assert.Equal(t, "key", r.PostForm.Get("appKey"))
		assert.Equal(t, "salt", r.PostForm.Get("salt"))
		assert.Equal(t, "1700000000", r.PostForm.Get("curtime"))
		assert.Equal(t, "json", r.PostForm.Get("docType"))
		assert.Equal(t, "v3", r.PostForm.Get("signType"))
		assert.Equal(t, Sign("key", q, "salt", "1700000000", "secret"), r.PostForm.Get("sign"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errorCode":"0","flownumber":"FLOW-1"}`))
	})

	flow, err := c.Upload(context.Background(), UploadRequest{
		Content: content, FileName: "report.pdf", FileType: "pdf", From: "en", To: "zh-CHS",
	})
	require.NoError(t, err)
	assert.Equal(t, "FLOW-1", flow)
}

func TestClient_UploadVendorError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errorCode":"202"}`))
	})

	_, err := c.Upload(context.Background(), UploadRequest{Content: []byte("x")})
	var vendorErr *VendorError
	require.True(t, errors.As(err, &vendorErr))
	assert.Equal(t, "202", vendorErr.Code)
}

func TestClient_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, queryPath, r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "FLOW-1", r.PostForm.Get("flownumber"))
		assert.Equal(t, Sign("key", "FLOW-1", "salt", "1700000000", "secret"), r.PostForm.Get("sign"))
		w.Write([]byte(`{"errorCode":"0","status":4,"statusString":"done"}`))
	})

	status, err := c.Query(context.Background(), "FLOW-1")
	require.NoError(t, err)
	assert.True(t, status.OK())
	assert.Equal(t, 4, status.Status)
	assert.Equal(t, "done", status.StatusString)
}

func TestClient_Download(t *testing.T) {
	t.Run("Binary", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "docx", r.PostForm.Get("downloadFileType"))
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte{0x50, 0x4b, 0x03, 0x04})
		})

		content, err := c.Download(context.Background(), "FLOW-1", "docx")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x50, 0x4b, 0x03, 0x04}, content)
	})

	t.Run("JSONIsError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json;charset=UTF-8")
			w.Write([]byte(`{"errorCode":"411"}`))
		})

		content, err := c.Download(context.Background(), "FLOW-1", "docx")
		assert.Nil(t, content)
		var vendorErr *VendorError
		require.True(t, errors.As(err, &vendorErr))
		assert.Equal(t, "411", vendorErr.Code)
	})

	t.Run("HTTPFailure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.Download(context.Background(), "FLOW-1", "docx")
		assert.ErrorContains(t, err, "status 502")
	})
}

func TestClient_NotConfigured(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	c := NewClient(Config{AppKey: "key", BaseURL: srv.URL})
	assert.False(t, c.Configured())

	_, err := c.Query(context.Background(), "FLOW-1")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, called)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{AppKey: "k", AppSecret: "s"})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 60*time.Second, c.httpClient.Timeout)
}
