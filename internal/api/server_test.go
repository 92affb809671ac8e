package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnutej000/memories/internal/api/auth"
	"github.com/vishnutej000/memories/internal/chat"
	"github.com/vishnutej000/memories/internal/config"
	"github.com/vishnutej000/memories/internal/storage"
)

const sampleTranscript = `[18/05/2023, 08:39:07] John: Hey there
[18/05/2023, 08:40:12] Jane: Hello! How are you?
[18/05/2023, 08:41:30] John: Doing great, thanks
This continues on a second line
[19/05/2023, 09:15:00] Jane: <Media omitted>
[19/05/2023, 09:16:45] John: Nice photo!
`

func newTestServer(t *testing.T, passwordHash string) *Server {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "memories.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Auth.SecretKey = "test-secret"
	cfg.Auth.PasswordHash = passwordHash
	cfg.RateLimit.RPS = 1000
	cfg.RateLimit.Burst = 1000

	return NewServer(cfg, store)
}

func (s *Server) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chats", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func importChat(t *testing.T, s *Server) chat.Chat {
	t.Helper()

	rec := s.do(uploadRequest(t, "holiday chat.txt", sampleTranscript))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var meta chat.Chat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	return meta
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, Version, body["version"])
}

func TestCreateChat(t *testing.T) {
	s := newTestServer(t, "")

	meta := importChat(t, s)
	assert.Equal(t, "holiday chat", meta.Title)
	assert.Equal(t, "holiday chat.txt", meta.Filename)
	assert.Equal(t, 5, meta.MessageCount)
	assert.ElementsMatch(t, []string{"John", "Jane"}, meta.Participants)
	assert.False(t, meta.IsGroup)
}

func TestCreateChatRejectsBadUploads(t *testing.T) {
	s := newTestServer(t, "")

	t.Run("missing file field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chats", nil)
		rec := s.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong extension", func(t *testing.T) {
		rec := s.do(uploadRequest(t, "chat.csv", sampleTranscript))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp["message"], ".csv")
	})

	t.Run("empty transcript is a valid import", func(t *testing.T) {
		rec := s.do(uploadRequest(t, "empty.txt", ""))
		require.Equal(t, http.StatusCreated, rec.Code)

		var meta chat.Chat
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
		assert.Equal(t, 0, meta.MessageCount)
	})
}

func TestGetChats(t *testing.T) {
	s := newTestServer(t, "")
	meta := importChat(t, s)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/chats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var chats []chat.Chat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, meta.ID, chats[0].ID)
}

func TestGetChatByID(t *testing.T) {
	s := newTestServer(t, "")
	meta := importChat(t, s)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+meta.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/chats/chat_missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteChat(t *testing.T) {
	s := newTestServer(t, "")
	meta := importChat(t, s)

	rec := s.do(httptest.NewRequest(http.MethodDelete, "/api/v1/chats/"+meta.ID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodDelete, "/api/v1/chats/"+meta.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMessagesPagination(t *testing.T) {
	s := newTestServer(t, "")
	meta := importChat(t, s)

	url := fmt.Sprintf("/api/v1/chats/%s/messages?page=1&per_page=2", meta.ID)
	rec := s.do(httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list chat.MessageList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, 5, list.Total)
	assert.Equal(t, 3, list.Pages)
	require.Len(t, list.Messages, 2)
	assert.Equal(t, "Hey there", list.Messages[0].Content)
}

func TestAnalysisEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	meta := importChat(t, s)

	t.Run("statistics", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+meta.ID+"/statistics", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var stats chat.Statistics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		assert.Equal(t, 5, stats.TotalMessages)
		assert.Equal(t, "2023-05-18", stats.DateRange.Start)
		assert.Equal(t, "2023-05-19", stats.DateRange.End)
	})

	t.Run("sentiment", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+meta.ID+"/sentiment", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var sentiment chat.SentimentAnalysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sentiment))
		assert.Len(t, sentiment.Daily, 2)
	})

	t.Run("keywords", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+meta.ID+"/keywords?limit=3", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var keywords chat.KeywordAnalysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keywords))
		assert.LessOrEqual(t, len(keywords.Keywords), 3)
	})

	t.Run("missing chat", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/chats/chat_missing/statistics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestExportEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	meta := importChat(t, s)

	cases := []struct {
		format      string
		contentType string
	}{
		{"json", "application/json"},
		{"txt", "text/plain"},
		{"pdf", "application/pdf"},
		{"zip", "application/zip"},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			url := "/api/v1/chats/" + meta.ID + "/export/" + tc.format
			rec := s.do(httptest.NewRequest(http.MethodGet, url, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), tc.contentType)
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
			assert.NotEmpty(t, rec.Body.Bytes())
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/chats/"+meta.ID+"/export/docx", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad date filter", func(t *testing.T) {
		url := "/api/v1/chats/" + meta.ID + "/export/json?start_date=18-05-2023"
		rec := s.do(httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("media excluded", func(t *testing.T) {
		url := "/api/v1/chats/" + meta.ID + "/export/json?include_media=false"
		rec := s.do(httptest.NewRequest(http.MethodGet, url, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var messages []chat.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
		assert.Len(t, messages, 4)
	})
}

func TestAuthProtectedRoutes(t *testing.T) {
	hash, err := auth.HashPassphrase("open sesame")
	require.NoError(t, err)
	s := newTestServer(t, hash)

	t.Run("chats require token", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/chats", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		body := bytes.NewBufferString(`{"passphrase": "wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		req.Header.Set(echo.HeaderContentType, "application/json")
		rec := s.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("login then access", func(t *testing.T) {
		body := bytes.NewBufferString(`{"passphrase": "open sesame"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		req.Header.Set(echo.HeaderContentType, "application/json")
		rec := s.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var token auth.Token
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
		require.NotEmpty(t, token.AccessToken)

		authed := httptest.NewRequest(http.MethodGet, "/api/v1/chats", nil)
		authed.Header.Set("Authorization", "Bearer "+token.AccessToken)
		rec = s.do(authed)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLoginWithoutAuthConfigured(t *testing.T) {
	s := newTestServer(t, "")

	body := bytes.NewBufferString(`{"passphrase": "anything"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set(echo.HeaderContentType, "application/json")
	rec := s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "memories.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 1
	s := NewServer(cfg, store)

	first := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestCreateChatFromZip(t *testing.T) {
	s := newTestServer(t, "")

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	entry, err := zw.Create("WhatsApp Chat with Jane.txt")
	require.NoError(t, err)
	_, err = entry.Write([]byte(sampleTranscript))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "export.zip")
	require.NoError(t, err)
	_, err = part.Write(archive.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chats", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := s.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var meta chat.Chat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, 5, meta.MessageCount)

	t.Run("zip without transcript", func(t *testing.T) {
		var empty bytes.Buffer
		zw := zip.NewWriter(&empty)
		require.NoError(t, zw.Close())

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "export.zip")
		require.NoError(t, err)
		_, err = part.Write(empty.Bytes())
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/chats", &body)
		req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
		rec := s.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
