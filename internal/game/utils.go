package game

import (
	"fmt"
	"time"
)

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// formatFPS formats frames per second for the status line.
func formatFPS(fps float64) string {
	return fmt.Sprintf("%.1f fps", fps)
}
