package antivirus

import (
	"context"
	"io"
)

// ScanResult is the verdict on one file.
type ScanResult struct {
	Infected    bool   // malware found, or the scan could not complete
	ThreatName  string // empty if clean
	ScannerName string
	Error       error // set when the scan itself failed
}

// Scanner checks uploaded files before they leave the dashboard.
// Implementations fail closed: a failed scan reports Infected with Error set.
type Scanner interface {
	Scan(ctx context.Context, filename string, data io.Reader) ScanResult
	Name() string
	Ping(ctx context.Context) error
}

// NoOpScanner passes every file. Used when no scanner is configured.
type NoOpScanner struct{}

var _ Scanner = (*NoOpScanner)(nil)

func NewNoOpScanner() *NoOpScanner {
	return &NoOpScanner{}
}

func (n *NoOpScanner) Scan(ctx context.Context, filename string, data io.Reader) ScanResult {
	return ScanResult{ScannerName: n.Name()}
}

func (n *NoOpScanner) Name() string {
	return "noop"
}

func (n *NoOpScanner) Ping(ctx context.Context) error {
	return nil
}
