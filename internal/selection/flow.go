// Package selection implements the repository selection flow: entering a URL or
// picking a listed project, validating it against the backend, and handing the
// result to the chat screen.
package selection

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/diogo/repochat/internal/api"
	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/models"
	"github.com/diogo/repochat/internal/nav"
	"github.com/diogo/repochat/internal/state"
)

// Inline error messages shown under the URL and project panels
const (
	MsgURLUnavailable     = "The URL is not available or cannot be accessed"
	MsgURLFailed          = "Failed to validate URL. Please try again."
	MsgProjectUnavailable = "The selected project is not available"
	MsgProjectFailed      = "Failed to validate project. Please try again."
	MsgProjectNotListed   = "Select a project from the list"
)

// Flow is the selection screen state machine.
//
// Each operation comes in two halves so an event loop can run the network call
// off the loop: BeginX validates and marks the request outstanding, FinishX
// applies the result. SubmitURL, SubmitProject and LoadOptions chain both
// halves around a blocking backend call.
type Flow struct {
	mu sync.Mutex

	backend   api.Backend
	selection *state.Selection
	navigator nav.Navigator

	options        []models.SelectionOption
	optionsLoaded  bool
	loadingOptions bool

	url               string
	selected          string
	validatingURL     bool
	validatingProject bool
	urlErr            string
	projectErr        string
}

// Snapshot is what the selection screen renders
type Snapshot struct {
	Options        []models.SelectionOption
	OptionsLoaded  bool
	LoadingOptions bool

	URL               string
	Selected          string
	ValidatingURL     bool
	ValidatingProject bool
	URLError          string
	ProjectError      string
}

// NewFlow creates a selection flow writing into sel and navigating through navigator
func NewFlow(backend api.Backend, sel *state.Selection, navigator nav.Navigator) *Flow {
	return &Flow{
		backend:   backend,
		selection: sel,
		navigator: navigator,
	}
}

// Snapshot returns the current state
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	options := make([]models.SelectionOption, len(f.options))
	copy(options, f.options)

	return Snapshot{
		Options:           options,
		OptionsLoaded:     f.optionsLoaded,
		LoadingOptions:    f.loadingOptions,
		URL:               f.url,
		Selected:          f.selected,
		ValidatingURL:     f.validatingURL,
		ValidatingProject: f.validatingProject,
		URLError:          f.urlErr,
		ProjectError:      f.projectErr,
	}
}

// BeginLoadOptions reports whether the option list needs fetching. It returns
// false once the list has loaded or while a fetch is outstanding.
func (f *Flow) BeginLoadOptions() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.optionsLoaded || f.loadingOptions {
		return false
	}
	f.loadingOptions = true
	return true
}

// FinishLoadOptions records the fetched list. A failure leaves the list empty
// and is only logged; the next open retries.
func (f *Flow) FinishLoadOptions(options []models.SelectionOption, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loadingOptions = false
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load project options")
		return
	}

	f.options = options
	f.optionsLoaded = true
	log.Debug().Int("count", len(options)).Msg("Loaded project options")
}

// LoadOptions fetches the option list unless it is already loaded
func (f *Flow) LoadOptions(ctx context.Context) error {
	if !f.BeginLoadOptions() {
		return nil
	}
	options, err := f.backend.ListRepos(ctx)
	f.FinishLoadOptions(options, err)
	return err
}

// SetURL records the URL being typed and clears its error
func (f *Flow) SetURL(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.url = raw
	f.urlErr = ""
}

// Select records the highlighted project value and clears its error
func (f *Flow) Select(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = value
	f.projectErr = ""
}

// BeginURL starts validating raw and returns the trimmed URL to send.
// Blank input is rejected locally with ErrEmptyInput.
func (f *Flow) BeginURL(raw string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := strings.TrimSpace(raw)
	if u == "" {
		return "", apierrors.ErrEmptyInput
	}
	if f.validatingURL {
		return "", apierrors.ErrBusy
	}

	f.url = raw
	f.validatingURL = true
	f.urlErr = ""
	return u, nil
}

// FinishURL applies the backend's answer for u. On success the identifier is
// stored and the chat route is navigated to exactly once.
func (f *Flow) FinishURL(u, id string, err error) (nav.Route, bool) {
	f.mu.Lock()

	f.validatingURL = false
	if err == nil && strings.TrimSpace(id) == "" {
		err = apierrors.ErrRejected
	}
	if err != nil {
		f.urlErr = MsgURLFailed
		if apierrors.IsRejected(err) {
			f.urlErr = MsgURLUnavailable
		}
		f.mu.Unlock()
		log.Warn().Err(err).Str("url", u).Msg("URL validation failed")
		return nav.Route{}, false
	}
	f.mu.Unlock()

	f.selection.ID.Set(id)
	f.selection.Commits.Set(nil)

	route := nav.Chat(u, nav.KindURL)
	log.Info().Str("url", u).Str("id", id).Msg("Repository selected by URL")
	f.navigator.Navigate(route)
	return route, true
}

// SubmitURL validates raw against the backend and navigates on success
func (f *Flow) SubmitURL(ctx context.Context, raw string) error {
	u, err := f.BeginURL(raw)
	if err != nil {
		return err
	}

	id, err := f.backend.RegisterRepo(ctx, u)
	if _, ok := f.FinishURL(u, id, err); !ok {
		if err == nil {
			err = apierrors.ErrRejected
		}
		return err
	}
	return nil
}

// BeginProject starts validating the listed project whose value is value
func (f *Flow) BeginProject(value string) (models.SelectionOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if value == "" {
		return models.SelectionOption{}, apierrors.ErrEmptyInput
	}
	if f.validatingProject || f.loadingOptions {
		return models.SelectionOption{}, apierrors.ErrBusy
	}

	f.selected = value
	option, ok := models.FindOption(f.options, value)
	if !ok {
		f.projectErr = MsgProjectNotListed
		return models.SelectionOption{}, apierrors.ErrUnknownProject
	}

	f.validatingProject = true
	f.projectErr = ""
	return option, nil
}

// FinishProject applies the backend's answer for option. On success the
// identifier and commit list are stored and the chat route is navigated to.
func (f *Flow) FinishProject(option models.SelectionOption, err error) (nav.Route, bool) {
	f.mu.Lock()

	f.validatingProject = false
	if err != nil {
		f.projectErr = MsgProjectFailed
		if apierrors.IsRejected(err) {
			f.projectErr = MsgProjectUnavailable
		}
		f.mu.Unlock()
		log.Warn().Err(err).Str("project", option.Value).Msg("Project validation failed")
		return nav.Route{}, false
	}
	f.mu.Unlock()

	f.selection.ID.Set(option.ID)
	f.selection.Commits.Set(option.Commits)

	route := nav.Chat(option.Label(), nav.KindDropdown)
	log.Info().Str("project", option.Value).Str("id", option.ID).Int("commits", len(option.Commits)).Msg("Project selected")
	f.navigator.Navigate(route)
	return route, true
}

// SubmitProject validates the listed project value against the backend and
// navigates on success
func (f *Flow) SubmitProject(ctx context.Context, value string) error {
	option, err := f.BeginProject(value)
	if err != nil {
		return err
	}

	err = f.backend.ValidateProject(ctx, option)
	if _, ok := f.FinishProject(option, err); !ok {
		return err
	}
	return nil
}
