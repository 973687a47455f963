// AngelaMos | 2026
// service.go

package share

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/presentation"
)

type SlideLister interface {
	ListSlides(ctx context.Context, presentationID int64) ([]presentation.Slide, error)
}

type Recorder interface {
	PublicView(kind string)
}

const (
	viewKindPage  = "view"
	viewKindEmbed = "embed"

	tokenAttempts = 3
)

type ServiceConfig struct {
	DB          core.DBTX
	Transactor  core.Transactor
	Repos       func(core.DBTX) Repository
	Slides      func(core.DBTX) SlideLister
	Recorder    Recorder
	FrontendURL string
}

type Service struct {
	db          core.DBTX
	tx          core.Transactor
	repos       func(core.DBTX) Repository
	slides      func(core.DBTX) SlideLister
	recorder    Recorder
	frontendURL string
	policy      *bluemonday.Policy
	newToken    func() (string, error)
}

func NewService(cfg ServiceConfig) *Service {
	repos := cfg.Repos
	if repos == nil {
		repos = NewRepository
	}

	slides := cfg.Slides
	if slides == nil {
		slides = func(db core.DBTX) SlideLister { return presentation.NewRepository(db) }
	}

	return &Service{
		db:          cfg.DB,
		tx:          cfg.Transactor,
		repos:       repos,
		slides:      slides,
		recorder:    cfg.Recorder,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		policy:      bluemonday.StrictPolicy(),
		newToken:    core.GenerateShareToken,
	}
}

func (s *Service) Settings(
	ctx context.Context,
	userID string,
	presentationID int64,
) (*Settings, error) {
	return s.repos(s.db).Get(ctx, presentationID, userID)
}

// Enable makes the presentation public. A token is minted only the first
// time; re-enabling after Disable serves the same URL again.
func (s *Service) Enable(
	ctx context.Context,
	userID string,
	presentationID int64,
	allowEmbed bool,
) (*Settings, error) {
	return s.withFreshToken(func(token string) (*Settings, error) {
		return s.repos(s.db).Enable(ctx, presentationID, userID, token, allowEmbed)
	})
}

// Disable hides the presentation but keeps its token.
func (s *Service) Disable(
	ctx context.Context,
	userID string,
	presentationID int64,
) (*Settings, error) {
	return s.repos(s.db).Disable(ctx, presentationID, userID)
}

func (s *Service) UpdateSettings(
	ctx context.Context,
	userID string,
	presentationID int64,
	req UpdateSettingsRequest,
) (*Settings, error) {
	if req.AllowEmbed == nil {
		return s.repos(s.db).Get(ctx, presentationID, userID)
	}
	return s.repos(s.db).SetAllowEmbed(ctx, presentationID, userID, *req.AllowEmbed)
}

// Regenerate swaps in a new token. The previous one stops resolving at once.
func (s *Service) Regenerate(
	ctx context.Context,
	userID string,
	presentationID int64,
) (*Settings, error) {
	return s.withFreshToken(func(token string) (*Settings, error) {
		return s.repos(s.db).ReplaceToken(ctx, presentationID, userID, token)
	})
}

func (s *Service) withFreshToken(
	write func(token string) (*Settings, error),
) (*Settings, error) {
	var lastErr error
	for range tokenAttempts {
		token, err := s.newToken()
		if err != nil {
			return nil, err
		}

		settings, err := write(token)
		if !errors.Is(err, core.ErrDuplicateKey) {
			return settings, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("share token collided %d times: %w", tokenAttempts, lastErr)
}

// View returns a public presentation with its slides and counts the visit.
func (s *Service) View(ctx context.Context, token string) (*Published, error) {
	return s.visit(ctx, token, viewKindPage)
}

// Embed is View for presentations that also allow embedding. The owner is
// not disclosed.
func (s *Service) Embed(ctx context.Context, token string) (*Published, error) {
	p, err := s.visit(ctx, token, viewKindEmbed)
	if err != nil {
		return nil, err
	}
	p.Author = ""

	return p, nil
}

// visit bumps the view count and reads the slides in one transaction, so a
// visit that fails to load is not counted.
func (s *Service) visit(
	ctx context.Context,
	token, kind string,
) (*Published, error) {
	if !plausibleToken(token) {
		return nil, core.ErrNotFound
	}

	var p *Published
	err := s.tx.WithTx(ctx, func(tx core.DBTX) error {
		var err error
		if kind == viewKindEmbed {
			p, err = s.repos(tx).Embed(ctx, token)
		} else {
			p, err = s.repos(tx).View(ctx, token)
		}
		if err != nil {
			return err
		}

		p.Slides, err = s.slides(tx).ListSlides(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.PublicView(kind)
	}

	return p, nil
}

// Describe adds the public links to st. The share URL exists once a token
// does; the embed snippet also needs embedding allowed.
func (s *Service) Describe(st *Settings) SettingsResponse {
	resp := SettingsResponse{
		IsPublic:   st.IsPublic,
		AllowEmbed: st.AllowEmbed,
		ShareToken: st.ShareToken,
		SharedAt:   st.SharedAt,
		ViewCount:  st.ViewCount,
	}

	if st.ShareToken == nil {
		return resp
	}

	shareURL := fmt.Sprintf("%s/view/%s", s.frontendURL, *st.ShareToken)
	resp.ShareURL = &shareURL

	if st.AllowEmbed {
		code := s.embedCode(*st.ShareToken, st.Title)
		resp.EmbedCode = &code
	}

	return resp
}

func (s *Service) embedCode(token, title string) string {
	src := fmt.Sprintf("%s/embed/%s", s.frontendURL, token)

	return fmt.Sprintf(
		`<iframe src="%s" width="100%%" height="500" frameborder="0" allowfullscreen title="%s" style="border-radius: 8px; box-shadow: 0 4px 6px rgba(0,0,0,0.1);"></iframe>`,
		src,
		s.policy.Sanitize(title),
	)
}
