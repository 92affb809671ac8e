package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/vishnutej000/memories/internal/chat"
)

// PDF renders the filtered message sequence as a printable document:
// a title page header, a summary table, then the messages grouped by day.
func PDF(messages []chat.Message, opts chat.ExportOptions) ([]byte, error) {
	filtered := Filter(messages, opts)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Chat Export", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Chat Export", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(filtered) > 0 {
		writeSummary(pdf, filtered)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Messages", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	currentDay := ""
	for _, m := range filtered {
		day := m.Timestamp.Format("2006-01-02")
		if day != currentDay {
			currentDay = day
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(0, 6, m.Timestamp.Format("Monday, January 2, 2006"), "", 1, "C", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(1)
		}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(0, 0, 180)
		pdf.CellFormat(0, 5, m.Sender, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Helvetica", "", 10)
		body := m.Content
		if m.IsMedia() {
			body = fmt.Sprintf("[%s] %s", m.Type, m.Content)
		}
		pdf.MultiCell(0, 5, body, "", "L", false)

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(140, 140, 140)
		pdf.CellFormat(0, 4, m.Timestamp.Format("15:04:05"), "", 1, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(pdf *gofpdf.Fpdf, messages []chat.Message) {
	first, last := messages[0].Timestamp, messages[0].Timestamp
	senders := make(map[string]struct{})
	for _, m := range messages {
		if m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
		senders[m.Sender] = struct{}{}
	}

	rows := [][2]string{
		{"Date Range", first.Format("2006-01-02") + " to " + last.Format("2006-01-02")},
		{"Total Messages", strconv.Itoa(len(messages))},
		{"Participants", strconv.Itoa(len(senders))},
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetFillColor(235, 235, 235)
		pdf.CellFormat(45, 7, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(120, 7, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}
