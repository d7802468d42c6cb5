// internal/models/provider.go
package models

import "time"

type Provider struct {
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	Zip           string     `json:"zip"`
	State         string     `json:"state,omitempty"`
	LicenseType   *string    `json:"license_type"`
	LicenseStatus *string    `json:"license_status"`
	QRISRating    *string    `json:"qris_rating"`
	SourceURL     *string    `json:"source_url"`
	LastSeen      *time.Time `json:"last_seen"`
}
