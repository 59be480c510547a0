package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/matchreel/internal/domain/matchevent"
)

// PlaybackService hands clip bounds to the provider's manifest template. It never touches video.
type PlaybackService struct {
	provider MatchProvider
}

func NewPlaybackService(provider MatchProvider) *PlaybackService {
	return &PlaybackService{provider: provider}
}

func (s *PlaybackService) ManifestURI(ctx context.Context, clip matchevent.Clip) (string, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PlaybackService.ManifestURI")
	defer span.End()

	if clip.VideoAssetID <= 0 {
		return "", fmt.Errorf("%w: asset id must be greater than zero", ErrInvalidInput)
	}
	if clip.FromTimestamp < 0 || clip.ToTimestamp <= clip.FromTimestamp {
		return "", fmt.Errorf("%w: clip bounds must satisfy 0 <= from < to", ErrInvalidInput)
	}
	return s.provider.ClipURI(clip), nil
}
