package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// TrackRow is a stored track. Raw holds the track file exactly as uploaded
// so it can be reparsed; the other columns are for listing and filtering.
type TrackRow struct {
	ID            int64          `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Author        string         `db:"author" json:"author"`
	Version       int            `db:"version" json:"version"`
	Categories    int64          `db:"categories" json:"categories"`
	Settings      string         `db:"settings" json:"settings"`
	Ratings       pq.Int64Array  `db:"ratings" json:"ratings"`
	RecordName    sql.NullString `db:"record_name" json:"record_name,omitempty"`
	RecordStrokes sql.NullInt64  `db:"record_strokes" json:"record_strokes,omitempty"`
	RecordAt      sql.NullTime   `db:"record_at" json:"record_at,omitempty"`
	MapData       string         `db:"map_data" json:"-"`
	Raw           string         `db:"raw" json:"-"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// Author is an account allowed to upload tracks and post records
type Author struct {
	Name      string         `db:"name" json:"name"`
	TokenHash string         `db:"token_hash" json:"-"`
	Roles     pq.StringArray `db:"roles" json:"roles"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
