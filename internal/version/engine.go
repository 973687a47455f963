// AngelaMos | 2026
// engine.go

package version

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Recorder interface {
	VersionCreated(reason string)
}

// Engine snapshots and restores slides. Save and Restore must run inside a
// transaction: the slide row lock taken by Save is what keeps version
// numbers unique per slide, and it is held until that transaction ends.
type Engine struct {
	repos    func(core.DBTX) Repository
	recorder Recorder
}

func NewEngine(repos func(core.DBTX) Repository, recorder Recorder) *Engine {
	return &Engine{repos: repos, recorder: recorder}
}

// Save records the slide's current persisted state as the next version.
func (e *Engine) Save(
	ctx context.Context,
	tx core.DBTX,
	slideID int64,
	userID string,
	description *string,
) (*SlideVersion, error) {
	ctx, span := otel.Tracer("version").Start(ctx, "version.Save")
	defer span.End()
	span.SetAttributes(attribute.Int64("slide_id", slideID))

	repo := e.repos(tx)

	current, err := repo.LockSlide(ctx, slideID)
	if err != nil {
		return nil, err
	}

	number, err := repo.NextNumber(ctx, slideID)
	if err != nil {
		return nil, err
	}

	v := &SlideVersion{
		SlideID:           slideID,
		UserID:            userID,
		VersionNumber:     number,
		Title:             current.Title,
		Content:           current.Content,
		Notes:             current.Notes,
		Metadata:          current.Metadata,
		ChangeDescription: description,
	}

	if err := repo.Insert(ctx, v); err != nil {
		return nil, err
	}

	if e.recorder != nil {
		e.recorder.VersionCreated(reasonOf(description))
	}

	return v, nil
}

// RestoreResult carries the snapshot taken before restoring and the state
// the slide now holds.
type RestoreResult struct {
	Backup   *SlideVersion
	Restored *SlideVersion
	State    Snapshot
}

// Restore overwrites the slide with versionID's fields after first saving
// the current state. A version belonging to another slide is not found.
func (e *Engine) Restore(
	ctx context.Context,
	tx core.DBTX,
	slideID, versionID int64,
	userID string,
) (*RestoreResult, error) {
	repo := e.repos(tx)

	target, err := repo.GetForSlide(ctx, slideID, versionID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("%s %d", restorePrefix, target.VersionNumber)
	backup, err := e.Save(ctx, tx, slideID, userID, &description)
	if err != nil {
		return nil, err
	}

	state := target.Snapshot()
	if err := repo.ApplySnapshot(ctx, slideID, state); err != nil {
		return nil, err
	}

	return &RestoreResult{Backup: backup, Restored: target, State: state}, nil
}

// List returns the newest versions first, at most ListLimit of them.
func (e *Engine) List(
	ctx context.Context,
	db core.DBTX,
	slideID int64,
) ([]SlideVersion, error) {
	return e.repos(db).ListForSlide(ctx, slideID, ListLimit)
}

func reasonOf(description *string) string {
	switch {
	case description == nil:
		return "manual"
	case *description == DescriptionAutoSave:
		return "auto_save"
	case *description == DescriptionInitial:
		return "initial"
	case strings.HasPrefix(*description, restorePrefix):
		return "restore"
	default:
		return "manual"
	}
}
