package services

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/kamal-hamza/imgresize/internal/core/domain"
	"github.com/kamal-hamza/imgresize/internal/core/ports"
)

// RewriteService aligns a dropped image to the 4-pixel grid in place
type RewriteService struct {
	codec     ports.ImageCodec
	resampler ports.Resampler
	log       *zap.Logger
}

func NewRewriteService(codec ports.ImageCodec, resampler ports.Resampler, log *zap.Logger) *RewriteService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RewriteService{
		codec:     codec,
		resampler: resampler,
		log:       log,
	}
}

// Process runs one dropped path to completion and reports a single outcome.
// Errors never escape: every failure is folded into the returned Outcome.
func (s *RewriteService) Process(dropped domain.DroppedPath) domain.Outcome {
	outcome := s.process(dropped)

	fields := []zap.Field{
		zap.String("path", dropped.Path),
		zap.Stringer("outcome", outcome.Kind),
	}
	if outcome.Detail != "" {
		fields = append(fields, zap.String("detail", outcome.Detail))
	}
	if outcome.Kind.Failed() {
		s.log.Warn("Image not rewritten", fields...)
	} else {
		s.log.Info("Image processed", fields...)
	}

	return outcome
}

// ProcessAll handles one frame: outcomes come back in input order
func (s *RewriteService) ProcessAll(dropped []domain.DroppedPath) []domain.Outcome {
	outcomes := make([]domain.Outcome, 0, len(dropped))
	for _, d := range dropped {
		outcomes = append(outcomes, s.Process(d))
	}
	return outcomes
}

func (s *RewriteService) process(dropped domain.DroppedPath) domain.Outcome {
	// 1. Validate
	if !dropped.Valid || dropped.Path == "" {
		return domain.PathUnreadable(dropped.Raw)
	}
	path := dropped.Path

	// 2. Decode
	img, err := s.decode(path)
	if err != nil {
		return domain.DecodeFailed(path, err)
	}

	// 3. Plan
	current := domain.DimensionsOf(img)
	target, changed := current.Aligned()
	s.log.Debug("Decoded image",
		zap.String("path", path),
		zap.Stringer("dimensions", current),
		zap.Stringer("target", target))

	// 4. Short-circuit, leaving the original bytes untouched
	if !changed {
		return domain.NoOp(path)
	}

	// 5. Resample
	resized := s.resampler.Resample(img, target)

	// 6. Encode and overwrite
	if err := s.codec.EncodePNG(path, resized); err != nil {
		return domain.EncodeFailed(path, err)
	}

	return domain.Resized(path)
}

// decode isolates decoder panics so a single malformed file cannot take
// the surface down
func (s *RewriteService) decode(path string) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Decoder panicked", zap.String("path", path), zap.Any("panic", r))
			img = nil
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()

	return s.codec.Decode(path)
}
