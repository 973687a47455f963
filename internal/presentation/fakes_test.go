// AngelaMos | 2026
// fakes_test.go

package presentation

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/core/coretest"
	"github.com/carterperez-dev/slideview/internal/entitlement"
	"github.com/carterperez-dev/slideview/internal/version"
)

type store struct {
	mu            sync.Mutex
	nextID        int64
	presentations map[int64]Presentation
	slides        map[int64]Slide
	versions      []version.SlideVersion
	fail          map[string]error
}

func newStore() *store {
	return &store{
		nextID:        100,
		presentations: map[int64]Presentation{},
		slides:        map[int64]Slide{},
		fail:          map[string]error{},
	}
}

func (s *store) repos(db core.DBTX) Repository {
	return &fakeRepo{s: s, tx: coretest.AsTx(db)}
}

func (s *store) addPresentation(p Presentation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presentations[p.ID] = p
}

func (s *store) addSlide(sl Slide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slides[sl.ID] = sl

	p := s.presentations[sl.PresentationID]
	p.SlideCount++
	s.presentations[sl.PresentationID] = p
}

func (s *store) slide(id int64) (Slide, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slides[id]
	return sl, ok
}

func (s *store) presentation(id int64) Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentations[id]
}

func (s *store) versionsOf(slideID int64) []version.SlideVersion {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []version.SlideVersion
	for _, v := range s.versions {
		if v.SlideID == slideID {
			out = append(out, v)
		}
	}
	return out
}

func (s *store) versionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.versions)
}

// track must be called with s.mu held, before a mutation.
func (s *store) track(tx *coretest.Tx) {
	if tx == nil {
		return
	}

	ps := maps.Clone(s.presentations)
	sl := maps.Clone(s.slides)
	vs := slices.Clone(s.versions)
	next := s.nextID

	tx.OnRollback(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.presentations, s.slides, s.versions, s.nextID = ps, sl, vs, next
	})
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeRepo struct {
	s  *store
	tx *coretest.Tx
}

func (r *fakeRepo) ListByUser(_ context.Context, userID string) ([]Presentation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []Presentation
	for _, p := range r.s.presentations {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b Presentation) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

func (r *fakeRepo) GetOwned(_ context.Context, id int64, userID string) (*Presentation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.presentations[id]
	if !ok || p.UserID != userID {
		return nil, core.ErrNotFound
	}
	return &p, nil
}

func (r *fakeRepo) Create(_ context.Context, p *Presentation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail["Create"]; err != nil {
		return err
	}
	r.s.track(r.tx)

	now := time.Now()
	p.ID = r.s.id()
	p.LastEditedAt = &now
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.presentations[p.ID] = *p
	return nil
}

func (r *fakeRepo) Update(_ context.Context, p *Presentation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.presentations[p.ID]
	if !ok || stored.UserID != p.UserID {
		return core.ErrNotFound
	}
	r.s.track(r.tx)
	r.s.presentations[p.ID] = *p
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.presentations[id]
	if !ok || p.UserID != userID {
		return core.ErrNotFound
	}
	r.s.track(r.tx)
	delete(r.s.presentations, id)
	for sid, sl := range r.s.slides {
		if sl.PresentationID == id {
			delete(r.s.slides, sid)
		}
	}
	return nil
}

func (r *fakeRepo) SyncSlides(_ context.Context, id int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail["SyncSlides"]; err != nil {
		return 0, err
	}

	p, ok := r.s.presentations[id]
	if !ok {
		return 0, core.ErrNotFound
	}
	r.s.track(r.tx)

	count := 0
	for _, sl := range r.s.slides {
		if sl.PresentationID == id {
			count++
		}
	}

	now := time.Now()
	p.SlideCount = count
	p.LastEditedAt = &now
	r.s.presentations[id] = p
	return count, nil
}

func (r *fakeRepo) Touch(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.presentations[id]
	if !ok {
		return core.ErrNotFound
	}
	r.s.track(r.tx)

	now := time.Now()
	p.LastEditedAt = &now
	r.s.presentations[id] = p
	return nil
}

func (r *fakeRepo) ListSlides(_ context.Context, presentationID int64) ([]Slide, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []Slide
	for _, sl := range r.s.slides {
		if sl.PresentationID == presentationID {
			out = append(out, sl)
		}
	}
	slices.SortFunc(out, func(a, b Slide) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *fakeRepo) SlideIDs(_ context.Context, presentationID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var ids []int64
	for id, sl := range r.s.slides {
		if sl.PresentationID == presentationID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *fakeRepo) CountSlides(ctx context.Context, presentationID int64) (int, error) {
	ids, err := r.SlideIDs(ctx, presentationID)
	return len(ids), err
}

func (r *fakeRepo) GetSlide(_ context.Context, presentationID, slideID int64) (*Slide, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sl, ok := r.s.slides[slideID]
	if !ok || sl.PresentationID != presentationID {
		return nil, core.ErrNotFound
	}
	return &sl, nil
}

func (r *fakeRepo) CreateSlide(_ context.Context, sl *Slide) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail["CreateSlide"]; err != nil {
		return err
	}
	r.s.track(r.tx)

	now := time.Now()
	sl.ID = r.s.id()
	sl.CreatedAt, sl.UpdatedAt = now, now
	r.s.slides[sl.ID] = *sl
	return nil
}

func (r *fakeRepo) UpdateSlide(_ context.Context, sl *Slide) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.slides[sl.ID]
	if !ok || stored.PresentationID != sl.PresentationID {
		return core.ErrNotFound
	}
	r.s.track(r.tx)

	sl.UpdatedAt = time.Now()
	r.s.slides[sl.ID] = *sl
	return nil
}

func (r *fakeRepo) DeleteSlide(_ context.Context, presentationID, slideID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sl, ok := r.s.slides[slideID]
	if !ok || sl.PresentationID != presentationID {
		return core.ErrNotFound
	}
	r.s.track(r.tx)
	delete(r.s.slides, slideID)
	return nil
}

func (r *fakeRepo) DeleteSlides(_ context.Context, presentationID int64, ids []int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail["DeleteSlides"]; err != nil {
		return 0, err
	}
	r.s.track(r.tx)

	n := 0
	for _, id := range ids {
		if sl, ok := r.s.slides[id]; ok && sl.PresentationID == presentationID {
			delete(r.s.slides, id)
			n++
		}
	}
	return n, nil
}

// fakeVersioner keeps versions in the same store so a rollback undoes them
// along with the slides.
type fakeVersioner struct {
	s *store
}

func (f *fakeVersioner) Save(
	_ context.Context,
	tx core.DBTX,
	slideID int64,
	userID string,
	description *string,
) (*version.SlideVersion, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.save(coretest.AsTx(tx), slideID, userID, description)
}

func (f *fakeVersioner) save(
	tx *coretest.Tx,
	slideID int64,
	userID string,
	description *string,
) (*version.SlideVersion, error) {
	sl, ok := f.s.slides[slideID]
	if !ok {
		return nil, core.ErrNotFound
	}
	f.s.track(tx)

	number := 1
	for _, v := range f.s.versions {
		if v.SlideID == slideID && v.VersionNumber >= number {
			number = v.VersionNumber + 1
		}
	}

	v := version.SlideVersion{
		ID:                f.s.id(),
		SlideID:           slideID,
		UserID:            userID,
		VersionNumber:     number,
		Title:             sl.Title,
		Content:           sl.Content,
		Notes:             sl.Notes,
		Metadata:          sl.Metadata,
		ChangeDescription: description,
		CreatedAt:         time.Now(),
	}
	f.s.versions = append(f.s.versions, v)
	return &v, nil
}

func (f *fakeVersioner) Restore(
	_ context.Context,
	tx core.DBTX,
	slideID, versionID int64,
	userID string,
) (*version.RestoreResult, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var target *version.SlideVersion
	for i := range f.s.versions {
		if f.s.versions[i].ID == versionID && f.s.versions[i].SlideID == slideID {
			v := f.s.versions[i]
			target = &v
		}
	}
	if target == nil {
		return nil, core.ErrNotFound
	}

	description := "restore"
	backup, err := f.save(coretest.AsTx(tx), slideID, userID, &description)
	if err != nil {
		return nil, err
	}

	sl := f.s.slides[slideID]
	sl.apply(target.Snapshot())
	f.s.slides[slideID] = sl

	return &version.RestoreResult{
		Backup:   backup,
		Restored: target,
		State:    target.Snapshot(),
	}, nil
}

func (f *fakeVersioner) List(
	_ context.Context,
	_ core.DBTX,
	slideID int64,
) ([]version.SlideVersion, error) {
	out := f.s.versionsOf(slideID)
	slices.Reverse(out)
	return out, nil
}

type fakeGate struct {
	s      *store
	limits entitlement.Limits
}

func (g *fakeGate) CanCreatePresentation(_ context.Context, userID string) (entitlement.Decision, error) {
	g.s.mu.Lock()
	n := 0
	for _, p := range g.s.presentations {
		if p.UserID == userID {
			n++
		}
	}
	g.s.mu.Unlock()

	return entitlement.Decision{
		Allowed:  entitlement.CanCreatePresentation(g.limits, n),
		Current:  n,
		Limit:    g.limits.MaxPresentations,
		Resource: entitlement.ResourcePresentations,
	}, nil
}

func (g *fakeGate) CanAddSlide(_ context.Context, _ string, presentationID int64) (entitlement.Decision, error) {
	g.s.mu.Lock()
	n := 0
	for _, sl := range g.s.slides {
		if sl.PresentationID == presentationID {
			n++
		}
	}
	g.s.mu.Unlock()

	return entitlement.Decision{
		Allowed:  entitlement.CanAddSlide(g.limits, n),
		Current:  n,
		Limit:    g.limits.MaxSlides,
		Resource: entitlement.ResourceSlides,
	}, nil
}

func (g *fakeGate) CanHoldSlides(_ context.Context, _ string, n int) (entitlement.Decision, error) {
	return entitlement.Decision{
		Allowed:  entitlement.CanHoldSlides(g.limits, n),
		Current:  n,
		Limit:    g.limits.MaxSlides,
		Resource: entitlement.ResourceSlides,
	}, nil
}

type fakeRecorder struct {
	created, updated, deleted int
	calls                     int
}

func (f *fakeRecorder) SlidesReconciled(created, updated, deleted int) {
	f.created += created
	f.updated += updated
	f.deleted += deleted
	f.calls++
}
