package api

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/vishnutej000/memories/internal/analysis"
	"github.com/vishnutej000/memories/internal/chat"
	"github.com/vishnutej000/memories/internal/storage"
)

// createChat imports an uploaded transcript: parse, score, persist.
func (s *Server) createChat(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".txt" && ext != ".zip" {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("unsupported file type %q, expected .txt or .zip", ext))
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file").SetInternal(err)
	}

	if ext == ".zip" {
		data, err = extractTranscript(data)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "zip archive contains no transcript").SetInternal(err)
		}
	}

	messages, err := s.parser.Parse(data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not parse transcript").SetInternal(err)
	}

	for i := range messages {
		score := analysis.ScoreMessage(messages[i], s.scorer)
		messages[i].SentimentScore = score.Score
		messages[i].SentimentLabel = score.Label
	}

	meta := buildChatMeta(fileHeader.Filename, c.FormValue("title"), messages)
	if err := s.store.SaveChat(c.Request().Context(), meta, messages); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save chat").SetInternal(err)
	}

	log.Info().Str("chat_id", meta.ID).Int("messages", meta.MessageCount).
		Str("filename", meta.Filename).Msg("chat imported")

	return c.JSON(http.StatusCreated, meta)
}

func (s *Server) getChats(c echo.Context) error {
	chats, err := s.store.ListChats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list chats").SetInternal(err)
	}
	return c.JSON(http.StatusOK, chats)
}

func (s *Server) getChatByID(c echo.Context) error {
	meta, err := s.store.GetChat(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get chat").SetInternal(err)
	}
	return c.JSON(http.StatusOK, meta)
}

func (s *Server) deleteChat(c echo.Context) error {
	if err := s.store.DeleteChat(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete chat").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getMessages(c echo.Context) error {
	page := intQueryParam(c, "page", 1)
	perPage := intQueryParam(c, "per_page", 50)

	list, err := s.store.Messages(c.Request().Context(), c.Param("id"), page, perPage)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list messages").SetInternal(err)
	}
	return c.JSON(http.StatusOK, list)
}

// buildChatMeta derives stored chat metadata from the parsed messages.
func buildChatMeta(filename, title string, messages []chat.Message) chat.Chat {
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	participants := analysis.Participants(messages)
	meta := chat.Chat{
		ID:           "chat_" + uuid.NewString(),
		Title:        title,
		Filename:     filepath.Base(filename),
		IsGroup:      len(participants) > 2,
		Participants: participants,
		MessageCount: len(messages),
		CreatedAt:    time.Now().UTC(),
	}
	if len(messages) > 0 {
		meta.FirstMessage = messages[0].Timestamp
		meta.LastMessage = messages[len(messages)-1].Timestamp
	}
	return meta
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

// extractTranscript pulls the first .txt entry out of an exported zip.
func extractTranscript(data []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		// exports made on macOS carry resource-fork noise
		if strings.HasPrefix(entry.Name, "__MACOSX/") {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name), ".txt") {
			rc, err := entry.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}

	return nil, errors.New("no .txt entry in archive")
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
