package parameter

// Logging
const (
	LogDir      = "logs"
	LogFileName = "danmaku.log"

	// MaxLogSize rotates the previous log file when exceeded (10MB)
	MaxLogSize = 10 * 1024 * 1024
)
