package model

import (
	"fmt"
	"time"
)

// FileRecord is the stored representation of one uploaded file and its
// sharing state. ShareToken, ShareExpiresAt and Shared are set together
// when a link is issued and replaced outright on re-share.
type FileRecord struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Seq         uint      `json:"-" gorm:"autoIncrement;uniqueIndex"`
	UserID      uint      `json:"user_id" gorm:"index"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"type"`
	StorageKey  string    `json:"-"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`

	Shared         bool       `json:"shared"`
	ShareToken     *string    `json:"share_token,omitempty" gorm:"index"`
	ShareExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SetShare attaches a share token to the record. Any previous token is
// overwritten; there is one active share per file.
func (f *FileRecord) SetShare(token string, expiresAt time.Time) {
	f.ShareToken = &token
	f.ShareExpiresAt = &expiresAt
	f.Shared = true
}

// ShareExpired reports whether the record's share link is past its
// expiration at the given instant. Expiration is advisory: the record
// itself is untouched.
func (f *FileRecord) ShareExpired(now time.Time) bool {
	return f.ShareExpiresAt != nil && now.After(*f.ShareExpiresAt)
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count for humans, e.g. "48.83 MB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}
