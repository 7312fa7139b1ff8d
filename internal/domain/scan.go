package domain

import "time"

// ScanEvent records one resolution of a reference-mode code.
// Inline codes never reach the server, so they are not tracked.
type ScanEvent struct {
	ID        int64
	AssetID   string
	ScannedAt time.Time
	IPAddress string
	UserAgent string
	Referer   string
}

// NewScanEvent creates a scan event stamped with the current time.
func NewScanEvent(assetID, ipAddress, userAgent, referer string) *ScanEvent {
	return &ScanEvent{
		AssetID:   assetID,
		ScannedAt: time.Now(),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Referer:   referer,
	}
}
