package analysis

import (
	"sort"

	"github.com/vishnutej000/memories/internal/chat"
)

// CalculateStatistics derives the histogram report for a message sequence.
// Input order does not matter; the date range is taken from the extreme
// timestamps.
func CalculateStatistics(messages []chat.Message) chat.Statistics {
	if len(messages) == 0 {
		return chat.Statistics{
			BySender: []chat.SenderCount{},
			ByDay:    []chat.DayCount{},
			ByHour:   []chat.HourCount{},
		}
	}

	first, last := messages[0].Timestamp, messages[0].Timestamp
	senderCounts := make(map[string]int)
	dayCounts := make(map[string]int)
	hourCounts := make(map[int]int)
	activeDays := make(map[string]struct{})

	for _, m := range messages {
		if m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
		senderCounts[m.Sender]++
		dayCounts[m.Timestamp.Weekday().String()]++
		hourCounts[m.Timestamp.Hour()]++
		activeDays[m.Timestamp.Format("2006-01-02")] = struct{}{}
	}

	total := len(messages)

	bySender := make([]chat.SenderCount, 0, len(senderCounts))
	for sender, count := range senderCounts {
		bySender = append(bySender, chat.SenderCount{
			Sender:     sender,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		})
	}
	sort.Slice(bySender, func(i, j int) bool {
		if bySender[i].Count != bySender[j].Count {
			return bySender[i].Count > bySender[j].Count
		}
		return bySender[i].Sender < bySender[j].Sender
	})

	byDay := make([]chat.DayCount, 0, len(dayCounts))
	for day, count := range dayCounts {
		byDay = append(byDay, chat.DayCount{Day: day, Count: count})
	}
	sort.Slice(byDay, func(i, j int) bool {
		if byDay[i].Count != byDay[j].Count {
			return byDay[i].Count > byDay[j].Count
		}
		return byDay[i].Day < byDay[j].Day
	})

	byHour := make([]chat.HourCount, 0, len(hourCounts))
	for hour, count := range hourCounts {
		byHour = append(byHour, chat.HourCount{Hour: hour, Count: count})
	}
	sort.Slice(byHour, func(i, j int) bool { return byHour[i].Hour < byHour[j].Hour })

	busiestDay, quietestDay := "", ""
	if len(byDay) > 0 {
		busiestDay = byDay[0].Day
		quietestDay = byDay[len(byDay)-1].Day
	}

	busiestHour := 0
	maxHourCount := -1
	for _, hc := range byHour {
		if hc.Count > maxHourCount {
			maxHourCount = hc.Count
			busiestHour = hc.Hour
		}
	}

	return chat.Statistics{
		TotalMessages: total,
		DateRange: chat.DateRange{
			Start: first.Format("2006-01-02"),
			End:   last.Format("2006-01-02"),
		},
		BySender:      bySender,
		ByDay:         byDay,
		ByHour:        byHour,
		AveragePerDay: float64(total) / float64(len(activeDays)),
		BusiestDay:    busiestDay,
		QuietestDay:   quietestDay,
		BusiestHour:   busiestHour,
	}
}

// Participants lists the distinct senders in first-appearance order.
func Participants(messages []chat.Message) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range messages {
		if _, ok := seen[m.Sender]; ok {
			continue
		}
		seen[m.Sender] = struct{}{}
		out = append(out, m.Sender)
	}
	return out
}
