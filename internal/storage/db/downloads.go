package db

import (
	"fmt"
	"time"
)

// DownloadRecord is one completed artifact download.
type DownloadRecord struct {
	ModName      string
	Version      string
	FileName     string
	SizeBytes    int64
	DownloadedAt time.Time
}

// SaveDownload appends a record to the download history.
func (d *DB) SaveDownload(rec DownloadRecord) error {
	_, err := d.Exec(`
		INSERT INTO downloads (mod_name, version, file_name, size_bytes, downloaded_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ModName, rec.Version, rec.FileName, rec.SizeBytes, rec.DownloadedAt)
	if err != nil {
		return fmt.Errorf("saving download record: %w", err)
	}
	return nil
}

// ListDownloads returns the most recent download records, newest first.
// limit <= 0 returns everything.
func (d *DB) ListDownloads(limit int) ([]DownloadRecord, error) {
	query := `
		SELECT mod_name, version, file_name, size_bytes, downloaded_at
		FROM downloads
		ORDER BY downloaded_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying downloads: %w", err)
	}
	defer rows.Close()

	var recs []DownloadRecord
	for rows.Next() {
		var rec DownloadRecord
		if err := rows.Scan(&rec.ModName, &rec.Version, &rec.FileName, &rec.SizeBytes, &rec.DownloadedAt); err != nil {
			return nil, fmt.Errorf("scanning download record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// PruneDownloads deletes history older than the cutoff and reports how
// many rows were removed.
func (d *DB) PruneDownloads(before time.Time) (int64, error) {
	res, err := d.Exec("DELETE FROM downloads WHERE downloaded_at < ?", before)
	if err != nil {
		return 0, fmt.Errorf("pruning downloads: %w", err)
	}
	return res.RowsAffected()
}
