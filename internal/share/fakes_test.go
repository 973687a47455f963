// AngelaMos | 2026
// fakes_test.go

package share

import (
	"context"
	"sync"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/core/coretest"
	"github.com/carterperez-dev/slideview/internal/presentation"
)

type row struct {
	userID string
	author string
	st     Settings
}

type memRepo struct {
	mu   sync.Mutex
	rows map[int64]*row
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]*row{}}
}

func (m *memRepo) add(id int64, userID, author, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id] = &row{
		userID: userID,
		author: author,
		st:     Settings{PresentationID: id, Title: title},
	}
}

func (m *memRepo) owned(id int64, userID string) (*row, error) {
	r, ok := m.rows[id]
	if !ok || r.userID != userID {
		return nil, core.ErrNotFound
	}
	return r, nil
}

func (m *memRepo) tokenTaken(id int64, token string) bool {
	for other, r := range m.rows {
		if other != id && r.st.ShareToken != nil && *r.st.ShareToken == token {
			return true
		}
	}
	return false
}

func (m *memRepo) Get(_ context.Context, id int64, userID string) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.owned(id, userID)
	if err != nil {
		return nil, err
	}
	st := r.st
	return &st, nil
}

func (m *memRepo) Enable(
	_ context.Context,
	id int64,
	userID, token string,
	allowEmbed bool,
) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.owned(id, userID)
	if err != nil {
		return nil, err
	}
	if r.st.ShareToken == nil {
		if m.tokenTaken(id, token) {
			return nil, core.ErrDuplicateKey
		}
		r.st.ShareToken = &token
	}
	now := time.Now()
	r.st.IsPublic = true
	r.st.AllowEmbed = allowEmbed
	r.st.SharedAt = &now
	st := r.st
	return &st, nil
}

func (m *memRepo) Disable(_ context.Context, id int64, userID string) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.owned(id, userID)
	if err != nil {
		return nil, err
	}
	r.st.IsPublic = false
	r.st.AllowEmbed = false
	st := r.st
	return &st, nil
}

func (m *memRepo) SetAllowEmbed(
	_ context.Context,
	id int64,
	userID string,
	allow bool,
) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.owned(id, userID)
	if err != nil {
		return nil, err
	}
	r.st.AllowEmbed = allow
	st := r.st
	return &st, nil
}

func (m *memRepo) ReplaceToken(
	_ context.Context,
	id int64,
	userID, token string,
) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.owned(id, userID)
	if err != nil {
		return nil, err
	}
	if m.tokenTaken(id, token) {
		return nil, core.ErrDuplicateKey
	}
	r.st.ShareToken = &token
	st := r.st
	return &st, nil
}

func (m *memRepo) View(_ context.Context, token string) (*Published, error) {
	return m.visit(nil, token, false)
}

func (m *memRepo) Embed(_ context.Context, token string) (*Published, error) {
	return m.visit(nil, token, true)
}

func (m *memRepo) visit(tx *coretest.Tx, token string, embed bool) (*Published, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rows {
		if r.st.ShareToken == nil || *r.st.ShareToken != token || !r.st.IsPublic {
			continue
		}
		if embed && !r.st.AllowEmbed {
			continue
		}
		r.st.ViewCount++
		if tx != nil {
			tx.OnRollback(func() {
				m.mu.Lock()
				defer m.mu.Unlock()
				r.st.ViewCount--
			})
		}
		return &Published{
			ID:         id,
			Title:      r.st.Title,
			ViewCount:  r.st.ViewCount,
			Author:     r.author,
			SlideCount: 1,
		}, nil
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) viewCount(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].st.ViewCount
}

// txRepo binds memRepo to a fake transaction so visits roll back.
type txRepo struct {
	*memRepo
	tx *coretest.Tx
}

func (m *memRepo) within(db core.DBTX) Repository {
	return &txRepo{memRepo: m, tx: coretest.AsTx(db)}
}

func (r *txRepo) View(_ context.Context, token string) (*Published, error) {
	return r.visit(r.tx, token, false)
}

func (r *txRepo) Embed(_ context.Context, token string) (*Published, error) {
	return r.visit(r.tx, token, true)
}

type slideLister struct {
	err error
}

func (l *slideLister) ListSlides(
	_ context.Context,
	presentationID int64,
) ([]presentation.Slide, error) {
	if l.err != nil {
		return nil, l.err
	}
	return []presentation.Slide{
		{ID: 1, PresentationID: presentationID, Order: 0, Content: "hello"},
	}, nil
}

type viewRecorder struct {
	mu    sync.Mutex
	kinds []string
}

func (v *viewRecorder) PublicView(kind string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.kinds = append(v.kinds, kind)
}

// sequence hands out predictable tokens.
func sequence(tokens ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		t := tokens[i%len(tokens)]
		i++
		return t, nil
	}
}
