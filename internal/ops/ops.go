// Package ops implements the validated business operations composed from
// the document store and the API gateway. Every operation validates its
// input before any gateway call is made.
package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/tempo/internal/gateway"
	"github.com/Tiliavir/tempo/internal/model"
	"github.com/Tiliavir/tempo/internal/store"
	"github.com/Tiliavir/tempo/internal/timecalc"
)

// ValidationError reports a rejected input. It is always returned before
// any gateway call happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Service composes the document store and the API gateway into domain
// operations.
type Service struct {
	store *store.Store
	api   gateway.Caller
	log   *zap.Logger
}

// New returns a Service.
func New(st *store.Store, api gateway.Caller, log *zap.Logger) *Service {
	return &Service{store: st, api: api, log: log}
}

// User returns the current user profile.
func (s *Service) User() (model.User, error) {
	return s.store.LoadUser()
}

// Settings returns the current configuration.
func (s *Service) Settings() (model.Config, error) {
	return s.store.LoadConfig()
}

// LogResult echoes a created time log back for display.
type LogResult struct {
	ID    string
	Entry model.TimeLog
}

func validateDate(date string) error {
	if _, err := timecalc.ParseDate(date); err != nil {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD calendar date", date)}
	}
	return nil
}

func validateTime(hours, minutes int) error {
	if hours < 0 || hours > 23 {
		return &ValidationError{Field: "hours", Reason: "must be between 0 and 23"}
	}
	if minutes < 0 || minutes > 59 {
		return &ValidationError{Field: "minutes", Reason: "must be between 0 and 59"}
	}
	return nil
}

// LogTime records a unit of work against an active project. The project
// is checked against a freshly loaded catalog, never a cached one.
func (s *Service) LogTime(ctx context.Context, projectUUID, date string, hours, minutes int, note string) (LogResult, error) {
	if err := validateDate(date); err != nil {
		return LogResult{}, err
	}
	if err := validateTime(hours, minutes); err != nil {
		return LogResult{}, err
	}

	cat, err := s.store.LoadCatalog()
	if err != nil {
		return LogResult{}, err
	}
	p := cat.Find(projectUUID)
	if p == nil {
		return LogResult{}, &ValidationError{Field: "project", Reason: fmt.Sprintf("no project with uuid %q", projectUUID)}
	}
	if p.Status != model.StatusActive {
		return LogResult{}, &ValidationError{Field: "project", Reason: fmt.Sprintf("project %q is paused", p.Name)}
	}

	user, err := s.store.LoadUser()
	if err != nil {
		return LogResult{}, err
	}

	entry := model.TimeLog{
		Date:        date,
		Hours:       hours,
		Minutes:     minutes,
		ProjectUUID: p.UUID,
		ProjectName: p.Name,
		Note:        note,
		UserUUID:    user.UUID,
	}
	raw, err := s.api.Call(ctx, http.MethodPost, "/time-logs", entry)
	if err != nil {
		return LogResult{}, err
	}

	var resp struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return LogResult{}, fmt.Errorf("decoding time-log response: %w", err)
	}
	entry.ID = resp.ID

	s.log.Info("time logged",
		zap.String("project", p.Name),
		zap.String("date", date),
		zap.Int("minutes", timecalc.Minutes(hours, minutes)),
		zap.String("id", resp.ID),
	)
	return LogResult{ID: resp.ID, Entry: entry}, nil
}

// DaySummary is the aggregated result of ViewLogs. An empty Entries
// slice is a normal outcome, not an error.
type DaySummary struct {
	Date         string
	Entries      []model.TimeLog
	TotalMinutes int
}

// ViewLogs fetches the time logs for one date and aggregates the total.
func (s *Service) ViewLogs(ctx context.Context, date string) (DaySummary, error) {
	if err := validateDate(date); err != nil {
		return DaySummary{}, err
	}

	raw, err := s.api.Call(ctx, http.MethodGet, "/time-logs?date="+url.QueryEscape(date), nil)
	if err != nil {
		return DaySummary{}, err
	}

	var resp struct {
		Entries      []model.TimeLog `json:"entries"`
		TotalEntries int             `json:"total_entries"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return DaySummary{}, fmt.Errorf("decoding time-log list: %w", err)
	}

	total := 0
	for _, e := range resp.Entries {
		total += timecalc.Minutes(e.Hours, e.Minutes)
	}
	return DaySummary{Date: date, Entries: resp.Entries, TotalMinutes: total}, nil
}

// ListProjects returns the local catalog. No network call is made: the
// catalog is read-mostly and only changes through RefreshProjects.
func (s *Service) ListProjects() ([]model.Project, error) {
	cat, err := s.store.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return cat.Projects, nil
}

// RefreshProjects replaces the local catalog wholesale with the server's
// project list. On any failure the local catalog is left untouched.
func (s *Service) RefreshProjects(ctx context.Context) (int, error) {
	raw, err := s.api.Call(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return 0, err
	}
	var cat model.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return 0, fmt.Errorf("decoding project list: %w", err)
	}
	if err := s.store.SaveCatalog(cat); err != nil {
		return 0, err
	}
	s.log.Info("project catalog refreshed", zap.Int("projects", len(cat.Projects)))
	return len(cat.Projects), nil
}

// UpdateTimeLog rewrites an existing entry on the server. The controller
// exposes no menu item for it yet, but the operation is complete.
func (s *Service) UpdateTimeLog(ctx context.Context, id, date string, hours, minutes int, note string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if err := validateDate(date); err != nil {
		return err
	}
	if err := validateTime(hours, minutes); err != nil {
		return err
	}
	entry := model.TimeLog{ID: id, Date: date, Hours: hours, Minutes: minutes, Note: note}
	_, err := s.api.Call(ctx, http.MethodPut, "/time-logs/"+id, entry)
	return err
}

// DeleteTimeLog removes an entry on the server. Like UpdateTimeLog it is
// not reachable from the menu yet.
func (s *Service) DeleteTimeLog(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	_, err := s.api.Call(ctx, http.MethodDelete, "/time-logs/"+id, nil)
	return err
}

// EditUserInfo updates the profile's name and email, preserving the uuid.
func (s *Service) EditUserInfo(name, email string) (model.User, error) {
	if strings.TrimSpace(name) == "" {
		return model.User{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !strings.Contains(email, "@") {
		return model.User{}, &ValidationError{Field: "email", Reason: fmt.Sprintf("%q does not look like an email address", email)}
	}
	u, err := s.store.LoadUser()
	if err != nil {
		return model.User{}, err
	}
	u.Name = name
	u.Email = email
	if err := s.store.SaveUser(u); err != nil {
		return model.User{}, err
	}
	s.log.Info("user profile updated", zap.String("uuid", u.UUID))
	return u, nil
}

// EditAPISettings updates the API base URL and token.
func (s *Service) EditAPISettings(apiURL, token string) (model.Config, error) {
	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return model.Config{}, &ValidationError{Field: "url", Reason: fmt.Sprintf("%q is not an http(s) URL", apiURL)}
	}
	cfg, err := s.store.LoadConfig()
	if err != nil {
		return model.Config{}, err
	}
	cfg.APIURL = strings.TrimSuffix(apiURL, "/")
	cfg.APIToken = token
	cfg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := s.store.SaveConfig(cfg); err != nil {
		return model.Config{}, err
	}
	s.log.Info("api settings updated", zap.String("url", cfg.APIURL))
	return cfg, nil
}

// ToggleMockMode flips the mock flag and returns the new value.
func (s *Service) ToggleMockMode() (bool, error) {
	cfg, err := s.store.LoadConfig()
	if err != nil {
		return false, err
	}
	cfg.MockMode = !cfg.MockMode
	cfg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := s.store.SaveConfig(cfg); err != nil {
		return false, err
	}
	s.log.Info("mock mode toggled", zap.Bool("mock", cfg.MockMode))
	return cfg.MockMode, nil
}

// ToggleRequestPreview flips the show_curl_commands flag and returns the
// new value.
func (s *Service) ToggleRequestPreview() (bool, error) {
	cfg, err := s.store.LoadConfig()
	if err != nil {
		return false, err
	}
	cfg.ShowCurlCommands = !cfg.ShowCurlCommands
	cfg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := s.store.SaveConfig(cfg); err != nil {
		return false, err
	}
	return cfg.ShowCurlCommands, nil
}
