package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Visit is one tracked page view. The client address is only ever stored
// hashed.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type LinkStat struct {
	Slug        string    `json:"slug"`
	URL         string    `json:"url"`
	Clicks      int64     `json:"clicks"`
	LastClicked time.Time `json:"last_clicked"`
}

type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Delivered bool      `json:"delivered"`
}

type Stats struct {
	TotalVisitors    int64      `json:"total_visitors"`
	UniqueVisitors   int64      `json:"unique_visitors"`
	VisitorsToday    int64      `json:"visitors_today"`
	VisitorsThisWeek int64      `json:"visitors_this_week"`
	TotalClicks      int64      `json:"total_clicks"`
	TotalMessages    int64      `json:"total_messages"`
	TopLinks         []LinkStat `json:"top_links"`
	RecentVisitors   []Visit    `json:"recent_visitors"`
}

// RecordVisit stores a page view.
func (d *DB) RecordVisit(hashedIP, userAgent, path string) error {
	_, err := d.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashedIP, userAgent, path, stamp(d.now()))
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordClick increments the click counter for an outbound link.
func (d *DB) RecordClick(slug, url string) error {
	_, err := d.Exec(`
		INSERT INTO link_clicks (slug, url, clicks, last_clicked)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(slug) DO UPDATE SET
			clicks = clicks + 1,
			url = excluded.url,
			last_clicked = excluded.last_clicked
	`, slug, url, stamp(d.now()))
	if err != nil {
		return fmt.Errorf("recording click %s: %w", slug, err)
	}
	return nil
}

// SaveMessage stores a contact submission and returns its id.
func (d *DB) SaveMessage(name, email, body, hashedIP string) (string, error) {
	id := uuid.NewString()
	_, err := d.Exec(`
		INSERT INTO messages (id, name, email, body, hashed_ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, name, email, body, hashedIP, stamp(d.now()))
	if err != nil {
		return "", fmt.Errorf("saving message: %w", err)
	}
	return id, nil
}

// MarkDelivered flags a message as sent by mail.
func (d *DB) MarkDelivered(id string) error {
	res, err := d.Exec(`UPDATE messages SET delivered = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking message %s delivered: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("message %s not found", id)
	}
	return nil
}

// RecentMessages returns the newest messages first.
func (d *DB) RecentMessages(limit int) ([]Message, error) {
	rows, err := d.Query(`
		SELECT id, name, email, body, created_at, delivered
		FROM messages
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var created string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &created, &m.Delivered); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.CreatedAt = parseStamp(created)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// RecentVisits returns the newest page views first.
func (d *DB) RecentVisits(limit int) ([]Visit, error) {
	rows, err := d.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		v.Timestamp = parseStamp(ts)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// TopLinks returns links ordered by clicks.
func (d *DB) TopLinks(limit int) ([]LinkStat, error) {
	rows, err := d.Query(`
		SELECT slug, url, clicks, COALESCE(last_clicked, '')
		FROM link_clicks
		ORDER BY clicks DESC, slug ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var links []LinkStat
	for rows.Next() {
		var l LinkStat
		var last string
		if err := rows.Scan(&l.Slug, &l.URL, &l.Clicks, &last); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		l.LastClicked = parseStamp(last)
		links = append(links, l)
	}
	return links, rows.Err()
}

// Stats aggregates the admin dashboard figures.
func (d *DB) Stats() (*Stats, error) {
	now := d.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{stamp(midnight)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{stamp(weekAgo)}},
		{&stats.TotalClicks, `SELECT COALESCE(SUM(clicks), 0) FROM link_clicks`, nil},
		{&stats.TotalMessages, `SELECT COUNT(*) FROM messages`, nil},
	}
	for _, c := range counts {
		if err := d.QueryRow(c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.TopLinks, err = d.TopLinks(10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = d.RecentVisits(50); err != nil {
		return nil, err
	}
	return stats, nil
}

// Cleanup removes visitor rows older than the retention window and returns
// how many were deleted.
func (d *DB) Cleanup(retention time.Duration) (int64, error) {
	cutoff := d.now().Add(-retention)
	res, err := d.Exec(`DELETE FROM visitors WHERE timestamp < ?`, stamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("cleaning up visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
