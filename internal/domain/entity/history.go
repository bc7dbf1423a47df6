package entity

import "time"

// HistoryEntry is a page a host session finished loading.
type HistoryEntry struct {
	ID          int64     `json:"id" yaml:"id"`
	URL         string    `json:"url" yaml:"url"`
	Title       string    `json:"title" yaml:"title"`
	VisitCount  int64     `json:"visit_count" yaml:"visit_count"`
	LastVisited time.Time `json:"last_visited" yaml:"last_visited"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewHistoryEntry creates a new history entry for a URL.
func NewHistoryEntry(url, title string) *HistoryEntry {
	now := time.Now()
	return &HistoryEntry{
		URL:         url,
		Title:       title,
		VisitCount:  1,
		LastVisited: now,
		CreatedAt:   now,
	}
}

// DisplayTitle returns the title, or the URL for untitled pages.
func (h *HistoryEntry) DisplayTitle() string {
	if h.Title == "" {
		return h.URL
	}
	return h.Title
}

// HistoryStats contains aggregated history statistics.
type HistoryStats struct {
	TotalEntries int64 `json:"total_entries" yaml:"total_entries"`
	TotalVisits  int64 `json:"total_visits" yaml:"total_visits"`
}
