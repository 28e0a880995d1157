package storage

// Config holds storage configuration
type Config struct {
	DataDir string // Directory holding encrypted file content, one entry per file ID
	TempDir string // Directory for transient cleartext copies
}
