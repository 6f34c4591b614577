package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetThread retrieves a cached comment-thread payload.
// Returns (payload, isFresh, error). payload is nil on cache miss.
func (d *DB) GetThread(permalink, sort string, ttl time.Duration) ([]byte, bool, error) {
	row := d.db.QueryRow(`SELECT payload, fetched_at FROM threads WHERE permalink = ? AND sort = ?`,
		permalink, sort)
	return scanPayload(row, ttl)
}

// PutThread stores a comment-thread payload.
func (d *DB) PutThread(permalink, sort string, payload []byte) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO threads (permalink, sort, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		permalink, sort, payload, time.Now().Unix())
	return err
}

// InvalidateThread drops every cached sort order of a thread.
func (d *DB) InvalidateThread(permalink string) error {
	_, err := d.db.Exec(`DELETE FROM threads WHERE permalink = ?`, permalink)
	return err
}

// GetLinkPage retrieves a cached link-listing payload.
func (d *DB) GetLinkPage(subreddit, after string, ttl time.Duration) ([]byte, bool, error) {
	row := d.db.QueryRow(`SELECT payload, fetched_at FROM link_pages WHERE subreddit = ? AND after = ?`,
		subreddit, after)
	return scanPayload(row, ttl)
}

// PutLinkPage stores a link-listing payload.
func (d *DB) PutLinkPage(subreddit, after string, payload []byte) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO link_pages (subreddit, after, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		subreddit, after, payload, time.Now().Unix())
	return err
}

// Prune deletes payloads fetched before cutoff and returns how many rows
// were removed.
func (d *DB) Prune(cutoff time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"threads", "link_pages"} {
		res, err := d.db.Exec(`DELETE FROM `+table+` WHERE fetched_at < ?`, cutoff.Unix())
		if err != nil {
			return total, fmt.Errorf("pruning %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func scanPayload(row *sql.Row, ttl time.Duration) ([]byte, bool, error) {
	var payload []byte
	var fetchedAt int64
	err := row.Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	isFresh := time.Since(time.Unix(fetchedAt, 0)) < ttl
	return payload, isFresh, nil
}
