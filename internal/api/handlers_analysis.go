package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vishnutej000/memories/internal/analysis"
	"github.com/vishnutej000/memories/internal/chat"
	"github.com/vishnutej000/memories/internal/storage"
)

const defaultKeywordLimit = 20

// chatMessages loads every message of a chat, mapping missing chats to 404.
func (s *Server) chatMessages(c echo.Context) ([]chat.Message, error) {
	messages, err := s.store.AllMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load messages").SetInternal(err)
	}
	return messages, nil
}

func (s *Server) getStatistics(c echo.Context) error {
	messages, err := s.chatMessages(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analysis.CalculateStatistics(messages))
}

func (s *Server) getSentiment(c echo.Context) error {
	messages, err := s.chatMessages(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analysis.AnalyzeSentiment(messages, s.scorer))
}

func (s *Server) getKeywords(c echo.Context) error {
	messages, err := s.chatMessages(c)
	if err != nil {
		return err
	}
	limit := intQueryParam(c, "limit", defaultKeywordLimit)
	return c.JSON(http.StatusOK, analysis.ExtractKeywords(messages, limit))
}
