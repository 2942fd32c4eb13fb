package constants

const (
	LogDirName  = "logs"
	LogFileName = "journal.log"

	// Rotation: 5 MB per file, 5 backups kept
	LogMaxSizeMB  = 5
	LogMaxBackups = 5
	LogMaxAgeDays = 28
)
