// AngelaMos | 2026
// service.go

package draft

import (
	"context"
	"time"

	"github.com/carterperez-dev/slideview/internal/presentation"
)

type PresentationOwner interface {
	Owned(ctx context.Context, userID string, id int64) (*presentation.Presentation, error)
}

type Recorder interface {
	DraftSaved(kind string)
	DraftsCleaned(n int)
}

type Service struct {
	repo          Repository
	presentations PresentationOwner
	recorder      Recorder
	retention     time.Duration
	now           func() time.Time
}

func NewService(
	repo Repository,
	presentations PresentationOwner,
	recorder Recorder,
	retention time.Duration,
) *Service {
	if retention <= 0 {
		retention = DefaultRetention
	}

	return &Service{
		repo:          repo,
		presentations: presentations,
		recorder:      recorder,
		retention:     retention,
		now:           time.Now,
	}
}

// Save stores the caller's draft for the request's kind, replacing any
// draft already held for it. A presentation the caller does not own is not
// found.
func (s *Service) Save(
	ctx context.Context,
	userID string,
	req SaveDraftRequest,
) (*Draft, error) {
	kind := req.Kind()

	if kind.PresentationID != nil {
		_, err := s.presentations.Owned(ctx, userID, *kind.PresentationID)
		if err != nil {
			return nil, err
		}
	}

	d, err := s.repo.Upsert(
		ctx,
		Key{UserID: userID, Kind: kind},
		req.Title,
		req.Content,
		req.Metadata,
	)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.DraftSaved(string(kind.Type))
	}

	return d, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Draft, error) {
	return s.repo.ListRecent(ctx, userID, listLimit)
}

func (s *Service) Get(ctx context.Context, userID string, id int64) (*Draft, error) {
	return s.repo.GetOwned(ctx, id, userID)
}

func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	return s.repo.Delete(ctx, id, userID)
}

// Cleanup deletes the caller's drafts not saved within the retention
// window and reports how many went.
func (s *Service) Cleanup(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.DeleteStale(ctx, userID, s.now().Add(-s.retention))
	if err != nil {
		return 0, err
	}

	if s.recorder != nil && n > 0 {
		s.recorder.DraftsCleaned(n)
	}

	return n, nil
}
