package models

import "time"

// DirectoryEntry is a name-only record managed from the admin panel.
type DirectoryEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
