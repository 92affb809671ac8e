package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vishnutej000/memories/internal/chat"
	"github.com/vishnutej000/memories/internal/export"
	"github.com/vishnutej000/memories/internal/storage"
)

// exportChat renders a chat in the requested format and streams it as an
// attachment download.
func (s *Server) exportChat(c echo.Context) error {
	meta, err := s.store.GetChat(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get chat").SetInternal(err)
	}

	messages, err := s.chatMessages(c)
	if err != nil {
		return err
	}

	opts, err := exportOptions(c)
	if err != nil {
		return err
	}

	format := strings.ToLower(c.Param("format"))
	var (
		data        []byte
		contentType string
	)

	switch format {
	case "json":
		data, err = export.JSON(messages, opts)
		contentType = echo.MIMEApplicationJSON
	case "txt":
		data = export.Text(messages, opts)
		contentType = echo.MIMETextPlainCharsetUTF8
	case "pdf":
		data, err = export.PDF(messages, opts)
		contentType = "application/pdf"
	case "zip":
		data, err = export.Archive(messages, opts)
		contentType = "application/zip"
	default:
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed").SetInternal(err)
	}

	filename := exportFilename(meta.Title, format)
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, contentType, data)
}

// exportOptions reads include_media and the optional date range from the query.
func exportOptions(c echo.Context) (chat.ExportOptions, error) {
	opts := chat.ExportOptions{IncludeMedia: true}

	if raw := c.QueryParam("include_media"); raw != "" {
		opts.IncludeMedia = raw == "true" || raw == "1"
	}

	parseDate := func(name string) (*time.Time, error) {
		raw := c.QueryParam(name)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("invalid %s %q, expected YYYY-MM-DD", name, raw))
		}
		return &t, nil
	}

	var err error
	if opts.StartDate, err = parseDate("start_date"); err != nil {
		return opts, err
	}
	if opts.EndDate, err = parseDate("end_date"); err != nil {
		return opts, err
	}
	return opts, nil
}

// exportFilename builds a safe attachment name from the chat title.
func exportFilename(title, format string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, title)
	if slug == "" {
		slug = "chat"
	}
	return slug + "." + format
}
