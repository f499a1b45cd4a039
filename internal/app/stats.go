package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/logger"
)

// FrameStats logs the frame rate once a second at debug level.
type FrameStats struct {
	count int
	since time.Time
}

// NewFrameStats starts counting now.
func NewFrameStats() *FrameStats {
	return &FrameStats{since: time.Now()}
}

// Tick counts one presented frame.
func (f *FrameStats) Tick() {
	f.count++
	if elapsed := time.Since(f.since); elapsed >= time.Second {
		logger.Debug("fps", zap.Int("count", f.count), zap.Duration("elapsed", elapsed))
		f.count = 0
		f.since = time.Now()
	}
}
