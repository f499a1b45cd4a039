package gputest

import "github.com/Faultbox/lightlab/internal/engine/gpu"

// Swapchain is a fake gpu.Swapchain that logs into a Recorder so that
// backend and presentation calls share one ordered log.
type Swapchain struct {
	rec *Recorder

	Width, Height int
	Presents      int
	Resizes       int
	LastSync      int

	// LiveViewsAtResize is the recorder's live view count seen by each ResizeBuffers.
	LiveViewsAtResize []int
}

// NewSwapchain returns a swapchain recording into rec.
func NewSwapchain(rec *Recorder) *Swapchain {
	return &Swapchain{rec: rec}
}

func (s *Swapchain) ResizeBuffers(width, height int) error {
	s.rec.record("ResizeBuffers", width, height)
	if err := s.rec.Fail["ResizeBuffers"]; err != nil {
		return err
	}
	s.LiveViewsAtResize = append(s.LiveViewsAtResize, s.rec.LiveViews())
	s.Width, s.Height = width, height
	s.Resizes++
	return nil
}

func (s *Swapchain) Present(color gpu.ViewID, width, height, syncInterval int) error {
	s.rec.record("Present", color, width, height, syncInterval)
	if err := s.rec.Fail["Present"]; err != nil {
		return err
	}
	s.Presents++
	s.LastSync = syncInterval
	return nil
}

var _ gpu.Swapchain = (*Swapchain)(nil)
