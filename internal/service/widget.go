package service

import (
	"errors"
	"time"

	"github.com/vaultpass/passgen-go/internal/generator"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/session"
	"github.com/vaultpass/passgen-go/internal/token"
	"github.com/vaultpass/passgen-go/internal/widget"
)

var (
	ErrWidgetNotFound = errors.New("widget not found")
	ErrTooManyWidgets = errors.New("too many active widgets, try again later")
	ErrNothingToCopy  = errors.New("no password to copy, select at least one character type")
	ErrEntryNotFound  = errors.New("password entry not found")
)

// WidgetService manages browser widget sessions.
type WidgetService struct {
	registry    *session.Registry
	defaults    generator.Options
	tokenSecret string
	tokenExpiry time.Duration
}

// NewWidgetService creates a new WidgetService.
func NewWidgetService(registry *session.Registry, defaults generator.Options, secret string, expiry time.Duration) *WidgetService {
	return &WidgetService{
		registry:    registry,
		defaults:    defaults,
		tokenSecret: secret,
		tokenExpiry: expiry,
	}
}

// Create starts a widget session. A nil patch uses the configured defaults.
func (s *WidgetService) Create(patch *model.ConfigPatch) (model.CreateWidgetResponse, error) {
	opts := s.defaults
	if patch != nil {
		opts = patch.Apply(opts)
	}

	sess, err := s.registry.Create(opts)
	if err != nil {
		if errors.Is(err, session.ErrFull) {
			return model.CreateWidgetResponse{}, ErrTooManyWidgets
		}
		return model.CreateWidgetResponse{}, err
	}

	tok, err := token.Generate(sess.ID, s.tokenSecret, s.tokenExpiry)
	if err != nil {
		_ = s.registry.Delete(sess.ID)
		return model.CreateWidgetResponse{}, err
	}

	return model.CreateWidgetResponse{
		ID:    sess.ID,
		Token: tok,
		State: model.NewWidgetState(sess.Widget.State()),
	}, nil
}

// Session returns the live session for id.
func (s *WidgetService) Session(id string) (*session.Session, error) {
	sess, err := s.registry.Get(id)
	if err != nil {
		return nil, ErrWidgetNotFound
	}
	return sess, nil
}

// State returns the current widget state.
func (s *WidgetService) State(id string) (model.WidgetState, error) {
	sess, err := s.Session(id)
	if err != nil {
		return model.WidgetState{}, err
	}
	return model.NewWidgetState(sess.Widget.State()), nil
}

// Update applies a partial configuration change; passwords regenerate.
func (s *WidgetService) Update(id string, patch model.ConfigPatch) (model.WidgetState, error) {
	sess, err := s.Session(id)
	if err != nil {
		return model.WidgetState{}, err
	}
	st := sess.Widget.Update(func(opts *generator.Options) {
		*opts = patch.Apply(*opts)
	})
	return model.NewWidgetState(st), nil
}

// Regenerate draws new passwords with the current configuration.
func (s *WidgetService) Regenerate(id string) (model.WidgetState, error) {
	sess, err := s.Session(id)
	if err != nil {
		return model.WidgetState{}, err
	}
	return model.NewWidgetState(sess.Widget.Regenerate()), nil
}

// Copy marks entry index as copied and returns its text for the client clipboard.
func (s *WidgetService) Copy(id string, index int) (model.CopyResponse, error) {
	sess, err := s.Session(id)
	if err != nil {
		return model.CopyResponse{}, err
	}

	res, err := sess.Widget.Copy(index)
	if err != nil {
		return model.CopyResponse{}, mapCopyError(err)
	}

	return model.CopyResponse{
		Text:  res.Text,
		State: model.NewWidgetState(sess.Widget.State()),
	}, nil
}

// Key runs the shortcut bound to req.Combo.
func (s *WidgetService) Key(id string, req model.KeyRequest) (model.KeyResponse, error) {
	sess, err := s.Session(id)
	if err != nil {
		return model.KeyResponse{}, err
	}

	res, err := sess.Widget.HandleKey(req.Combo)
	if err != nil {
		return model.KeyResponse{}, err
	}

	return model.KeyResponse{
		Action:  string(res.Action),
		Ignored: res.Ignored,
		Text:    res.Copy.Text,
		State:   model.NewWidgetState(res.State),
	}, nil
}

// Delete ends a widget session.
func (s *WidgetService) Delete(id string) error {
	if err := s.registry.Delete(id); err != nil {
		return ErrWidgetNotFound
	}
	return nil
}

func mapCopyError(err error) error {
	switch {
	case errors.Is(err, widget.ErrPlaceholder):
		return ErrNothingToCopy
	case errors.Is(err, widget.ErrIndexOutOfRange):
		return ErrEntryNotFound
	}
	return err
}
