// AngelaMos | 2026
// service.go

package presentation

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/entitlement"
	"github.com/carterperez-dev/slideview/internal/version"
)

type Gate interface {
	CanCreatePresentation(ctx context.Context, userID string) (entitlement.Decision, error)
	CanAddSlide(ctx context.Context, userID string, presentationID int64) (entitlement.Decision, error)
	CanHoldSlides(ctx context.Context, userID string, n int) (entitlement.Decision, error)
}

type Versioner interface {
	Save(ctx context.Context, tx core.DBTX, slideID int64, userID string, description *string) (*version.SlideVersion, error)
	Restore(ctx context.Context, tx core.DBTX, slideID, versionID int64, userID string) (*version.RestoreResult, error)
	List(ctx context.Context, db core.DBTX, slideID int64) ([]version.SlideVersion, error)
}

type Recorder interface {
	SlidesReconciled(created, updated, deleted int)
}

type ServiceConfig struct {
	DB         core.DBTX
	Transactor core.Transactor
	Repos      func(core.DBTX) Repository
	Gate       Gate
	Versions   Versioner
	Recorder   Recorder
	Logger     *slog.Logger
}

type Service struct {
	db       core.DBTX
	tx       core.Transactor
	repos    func(core.DBTX) Repository
	gate     Gate
	versions Versioner
	recorder Recorder
	logger   *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	repos := cfg.Repos
	if repos == nil {
		repos = NewRepository
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		db:       cfg.DB,
		tx:       cfg.Transactor,
		repos:    repos,
		gate:     cfg.Gate,
		versions: cfg.Versions,
		recorder: cfg.Recorder,
		logger:   logger,
	}
}

var tracer = otel.Tracer("presentation")

func allow(d entitlement.Decision, err error) error {
	if err != nil {
		return err
	}
	return d.Err()
}

// failed passes domain errors through and hides everything else behind an
// opaque transaction error after logging it.
func (s *Service) failed(op string, presentationID int64, err error) error {
	if errors.Is(err, core.ErrNotFound) || core.IsAppError(err) {
		return err
	}

	s.logger.Error("transaction failed",
		"op", op,
		"presentation_id", presentationID,
		"error", err,
	)

	return core.TransactionError(err)
}

// Owned returns the caller's presentation. Someone else's presentation is
// reported as not found.
func (s *Service) Owned(
	ctx context.Context,
	userID string,
	id int64,
) (*Presentation, error) {
	return s.repos(s.db).GetOwned(ctx, id, userID)
}

func (s *Service) List(
	ctx context.Context,
	userID string,
) ([]Presentation, error) {
	return s.repos(s.db).ListByUser(ctx, userID)
}

func (s *Service) Get(
	ctx context.Context,
	userID string,
	id int64,
) (*Presentation, []Slide, error) {
	repo := s.repos(s.db)

	p, err := repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}

	slides, err := repo.ListSlides(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return p, slides, nil
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreatePresentationRequest,
) (*Presentation, []Slide, error) {
	p := &Presentation{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusDraft,
		Settings:    req.Settings,
	}

	return s.CreateWithSlides(ctx, p, req.Slides, nil)
}

// CreateWithSlides inserts p and its slides in one transaction, in list
// order. after, when set, runs inside that transaction once the rows exist.
func (s *Service) CreateWithSlides(
	ctx context.Context,
	p *Presentation,
	specs []SlideSpec,
	after func(ctx context.Context, tx core.DBTX, p *Presentation) error,
) (*Presentation, []Slide, error) {
	if err := allow(s.gate.CanCreatePresentation(ctx, p.UserID)); err != nil {
		return nil, nil, err
	}
	if len(specs) > 0 {
		if err := allow(s.gate.CanHoldSlides(ctx, p.UserID, len(specs))); err != nil {
			return nil, nil, err
		}
	}

	if p.Status == "" {
		p.Status = StatusDraft
	}

	var slides []Slide
	err := s.tx.WithTx(ctx, func(tx core.DBTX) error {
		repo := s.repos(tx)

		if err := repo.Create(ctx, p); err != nil {
			return err
		}

		slides = make([]Slide, 0, len(specs))
		for i, spec := range specs {
			slide := newSlide(p.ID, i, spec)
			if err := repo.CreateSlide(ctx, &slide); err != nil {
				return err
			}
			slides = append(slides, slide)
		}

		count, err := repo.SyncSlides(ctx, p.ID)
		if err != nil {
			return err
		}
		p.SlideCount = count

		if after != nil {
			return after(ctx, tx, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, s.failed("create presentation", p.ID, err)
	}

	return p, slides, nil
}

func (s *Service) Update(
	ctx context.Context,
	userID string,
	id int64,
	req UpdatePresentationRequest,
) (*Presentation, error) {
	repo := s.repos(s.db)

	p, err := repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Thumbnail != nil {
		p.Thumbnail = req.Thumbnail
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Settings != nil {
		p.Settings = req.Settings
	}

	if err := repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	return s.repos(s.db).Delete(ctx, id, userID)
}

// Duplicate copies a presentation and its slides, without their version
// history, into a new draft owned by the same user.
func (s *Service) Duplicate(
	ctx context.Context,
	userID string,
	id int64,
) (*Presentation, []Slide, error) {
	ctx, span := tracer.Start(ctx, "presentation.Duplicate")
	defer span.End()
	span.SetAttributes(attribute.Int64("presentation_id", id))

	src, err := s.repos(s.db).GetOwned(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}

	if err := allow(s.gate.CanCreatePresentation(ctx, userID)); err != nil {
		return nil, nil, err
	}
	if err := allow(s.gate.CanHoldSlides(ctx, userID, src.SlideCount)); err != nil {
		return nil, nil, err
	}

	dup := copyOf(src)
	var slides []Slide

	err = s.tx.WithTx(ctx, func(tx core.DBTX) error {
		repo := s.repos(tx)

		originals, err := repo.ListSlides(ctx, src.ID)
		if err != nil {
			return err
		}

		if err := repo.Create(ctx, dup); err != nil {
			return err
		}

		slides = make([]Slide, 0, len(originals))
		for _, o := range originals {
			slide := Slide{
				PresentationID: dup.ID,
				Order:          o.Order,
				Title:          o.Title,
				Content:        o.Content,
				Notes:          o.Notes,
				Metadata:       o.Metadata.Clone(),
			}
			if err := repo.CreateSlide(ctx, &slide); err != nil {
				return err
			}
			slides = append(slides, slide)
		}

		dup.SlideCount, err = repo.SyncSlides(ctx, dup.ID)
		return err
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, s.failed("duplicate presentation", id, err)
	}

	return dup, slides, nil
}

type reconcileStats struct {
	created int
	updated int
	deleted int
}

// ReplaceSlides makes the presentation's slides match specs. Specs naming
// an existing slide of this presentation update it in place, the rest are
// created, and slides left unmatched are deleted. The list index becomes
// each slide's order. Nothing is persisted unless every step succeeds.
func (s *Service) ReplaceSlides(
	ctx context.Context,
	userID string,
	id int64,
	specs []SlideSpec,
) (*Presentation, []Slide, error) {
	ctx, span := tracer.Start(ctx, "presentation.ReplaceSlides")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("presentation_id", id),
		attribute.Int("slides", len(specs)),
	)

	if _, err := s.repos(s.db).GetOwned(ctx, id, userID); err != nil {
		return nil, nil, err
	}

	if err := allow(s.gate.CanHoldSlides(ctx, userID, len(specs))); err != nil {
		return nil, nil, err
	}

	var (
		p      *Presentation
		slides []Slide
		stats  reconcileStats
	)

	err := s.tx.WithTx(ctx, func(tx core.DBTX) error {
		var err error
		if stats, err = s.reconcile(ctx, tx, id, userID, specs); err != nil {
			return err
		}

		repo := s.repos(tx)
		if p, err = repo.GetOwned(ctx, id, userID); err != nil {
			return err
		}
		slides, err = repo.ListSlides(ctx, id)
		return err
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, s.failed("replace slides", id, err)
	}

	if s.recorder != nil {
		s.recorder.SlidesReconciled(stats.created, stats.updated, stats.deleted)
	}

	s.logger.Debug("slides reconciled",
		"presentation_id", id,
		"created", stats.created,
		"updated", stats.updated,
		"deleted", stats.deleted,
	)

	return p, slides, nil
}

func (s *Service) reconcile(
	ctx context.Context,
	tx core.DBTX,
	presentationID int64,
	userID string,
	specs []SlideSpec,
) (reconcileStats, error) {
	var stats reconcileStats
	repo := s.repos(tx)

	ids, err := repo.SlideIDs(ctx, presentationID)
	if err != nil {
		return stats, err
	}

	existing := make(map[int64]struct{}, len(ids))
	for _, sid := range ids {
		existing[sid] = struct{}{}
	}
	matched := make(map[int64]struct{}, len(ids))

	for i, spec := range specs {
		if spec.ID != nil {
			if _, ok := existing[*spec.ID]; ok {
				err := s.updateInPlace(ctx, tx, repo, presentationID, userID, i, spec)
				if err != nil {
					return stats, err
				}
				matched[*spec.ID] = struct{}{}
				stats.updated++
				continue
			}
		}

		slide := newSlide(presentationID, i, spec)
		if err := repo.CreateSlide(ctx, &slide); err != nil {
			return stats, err
		}

		description := version.DescriptionInitial
		if _, err := s.versions.Save(ctx, tx, slide.ID, userID, &description); err != nil {
			return stats, err
		}
		stats.created++
	}

	stale := make([]int64, 0, len(ids))
	for _, sid := range ids {
		if _, ok := matched[sid]; !ok {
			stale = append(stale, sid)
		}
	}

	if stats.deleted, err = repo.DeleteSlides(ctx, presentationID, stale); err != nil {
		return stats, err
	}

	_, err = repo.SyncSlides(ctx, presentationID)
	return stats, err
}

// updateInPlace snapshots the stored slide first when the incoming fields
// differ from it.
func (s *Service) updateInPlace(
	ctx context.Context,
	tx core.DBTX,
	repo Repository,
	presentationID int64,
	userID string,
	order int,
	spec SlideSpec,
) error {
	stored, err := repo.GetSlide(ctx, presentationID, *spec.ID)
	if err != nil {
		return err
	}

	next := spec.snapshot()
	if version.Changed(stored.Snapshot(), next) {
		description := version.DescriptionAutoSave
		if _, err := s.versions.Save(ctx, tx, stored.ID, userID, &description); err != nil {
			return err
		}
	}

	stored.apply(next)
	stored.Order = order

	return repo.UpdateSlide(ctx, stored)
}

// AddSlide appends one slide. Without an explicit order it goes after the
// slides that exist now; siblings are never renumbered.
func (s *Service) AddSlide(
	ctx context.Context,
	userID string,
	id int64,
	spec SlideSpec,
) (*Slide, error) {
	if _, err := s.repos(s.db).GetOwned(ctx, id, userID); err != nil {
		return nil, err
	}

	if err := allow(s.gate.CanAddSlide(ctx, userID, id)); err != nil {
		return nil, err
	}

	var slide Slide
	err := s.tx.WithTx(ctx, func(tx core.DBTX) error {
		repo := s.repos(tx)

		var order int
		if spec.Order != nil {
			order = *spec.Order
		} else {
			n, err := repo.CountSlides(ctx, id)
			if err != nil {
				return err
			}
			order = n
		}

		slide = newSlide(id, order, spec)
		if err := repo.CreateSlide(ctx, &slide); err != nil {
			return err
		}

		_, err := repo.SyncSlides(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.failed("add slide", id, err)
	}

	return &slide, nil
}

func (s *Service) UpdateSlide(
	ctx context.Context,
	userID string,
	id, slideID int64,
	req UpdateSlideRequest,
) (*Slide, error) {
	if _, err := s.repos(s.db).GetOwned(ctx, id, userID); err != nil {
		return nil, err
	}

	var slide *Slide
	err := s.tx.WithTx(ctx, func(tx core.DBTX) error {
		repo := s.repos(tx)

		var err error
		if slide, err = repo.GetSlide(ctx, id, slideID); err != nil {
			return err
		}

		if req.Title != nil {
			slide.Title = req.Title
		}
		if req.Content != nil {
			slide.Content = *req.Content
		}
		if req.Notes != nil {
			slide.Notes = req.Notes
		}
		if req.Metadata != nil {
			slide.Metadata = req.Metadata
		}
		if req.Order != nil {
			slide.Order = *req.Order
		}

		if err := repo.UpdateSlide(ctx, slide); err != nil {
			return err
		}

		return repo.Touch(ctx, id)
	})
	if err != nil {
		return nil, s.failed("update slide", id, err)
	}

	return slide, nil
}

func (s *Service) DeleteSlide(
	ctx context.Context,
	userID string,
	id, slideID int64,
) error {
	if _, err := s.repos(s.db).GetOwned(ctx, id, userID); err != nil {
		return err
	}

	err := s.tx.WithTx(ctx, func(tx core.DBTX) error {
		repo := s.repos(tx)

		if err := repo.DeleteSlide(ctx, id, slideID); err != nil {
			return err
		}

		_, err := repo.SyncSlides(ctx, id)
		return err
	})
	if err != nil {
		return s.failed("delete slide", id, err)
	}

	return nil
}

func (s *Service) SaveSlideVersion(
	ctx context.Context,
	userID string,
	id, slideID int64,
	description *string,
) (*version.SlideVersion, error) {
	if _, err := s.repos(s.db).GetOwned(ctx, id, userID); err != nil {
		return nil, err
	}

	var v *version.SlideVersion
	err := s.tx.WithTx(ctx, func(tx core.DBTX) error {
		if _, err := s.repos(tx).GetSlide(ctx, id, slideID); err != nil {
			return err
		}

		var err error
		v, err = s.versions.Save(ctx, tx, slideID, userID, description)
		return err
	})
	if err != nil {
		return nil, s.failed("save slide version", id, err)
	}

	return v, nil
}

func (s *Service) ListSlideVersions(
	ctx context.Context,
	userID string,
	id, slideID int64,
) ([]version.SlideVersion, error) {
	repo := s.repos(s.db)

	if _, err := repo.GetOwned(ctx, id, userID); err != nil {
		return nil, err
	}
	if _, err := repo.GetSlide(ctx, id, slideID); err != nil {
		return nil, err
	}

	return s.versions.List(ctx, s.db, slideID)
}

// RestoreSlideVersion brings back versionID's fields. The state being
// replaced is saved as a new version first, so history only grows.
func (s *Service) RestoreSlideVersion(
	ctx context.Context,
	userID string,
	id, slideID, versionID int64,
) (*Slide, *version.SlideVersion, error) {
	if _, err := s.repos(s.db).GetOwned(ctx, id, userID); err != nil {
		return nil, nil, err
	}

	var (
		slide  *Slide
		backup *version.SlideVersion
	)

	err := s.tx.WithTx(ctx, func(tx core.DBTX) error {
		repo := s.repos(tx)

		if _, err := repo.GetSlide(ctx, id, slideID); err != nil {
			return err
		}

		result, err := s.versions.Restore(ctx, tx, slideID, versionID, userID)
		if err != nil {
			return err
		}
		backup = result.Backup

		if err := repo.Touch(ctx, id); err != nil {
			return err
		}

		slide, err = repo.GetSlide(ctx, id, slideID)
		return err
	})
	if err != nil {
		return nil, nil, s.failed("restore slide version", id, err)
	}

	return slide, backup, nil
}

func newSlide(presentationID int64, order int, spec SlideSpec) Slide {
	return Slide{
		PresentationID: presentationID,
		Order:          order,
		Title:          spec.Title,
		Content:        spec.Content,
		Notes:          spec.Notes,
		Metadata:       spec.Metadata,
	}
}
