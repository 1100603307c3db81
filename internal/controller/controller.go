// Package controller drives the interactive session as an explicit
// finite-state machine. MainMenu is the initial and re-entrant state;
// every leaf flow runs to completion (success or user abort) and hands
// control back to MainMenu. Exit is the only terminal state.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Tiliavir/tempo/internal/gateway"
	"github.com/Tiliavir/tempo/internal/model"
	"github.com/Tiliavir/tempo/internal/ops"
	"github.com/Tiliavir/tempo/internal/store"
	"github.com/Tiliavir/tempo/internal/timecalc"
	"github.com/Tiliavir/tempo/internal/ui"
)

// State is a node of the interaction state machine.
type State int

const (
	StateMainMenu State = iota
	StateLogTime
	StateViewLogs
	StateManageProjects
	StateSettings
	StateExit
)

// Controller dispatches menu selections to domain operations.
type Controller struct {
	ops *ops.Service
	ui  ui.Prompter
	log *zap.Logger
}

// New returns a Controller.
func New(svc *ops.Service, prompter ui.Prompter, log *zap.Logger) *Controller {
	return &Controller{ops: svc, ui: prompter, log: log}
}

// Run loops the state machine until the Exit transition.
func (c *Controller) Run(ctx context.Context) {
	st := StateMainMenu
	for st != StateExit {
		st = c.step(ctx, st)
	}
	c.ui.Show("Bye.")
}

func (c *Controller) step(ctx context.Context, st State) State {
	switch st {
	case StateMainMenu:
		return c.mainMenu()
	case StateLogTime:
		c.logTime(ctx)
	case StateViewLogs:
		c.viewLogs(ctx)
	case StateManageProjects:
		c.manageProjects(ctx)
	case StateSettings:
		c.settings()
	}
	// Every leaf flow re-enters the main menu.
	return StateMainMenu
}

func (c *Controller) mainMenu() State {
	idx, err := c.ui.Select("Main menu", []string{
		"Log work time",
		"View time logs",
		"Manage projects",
		"Settings",
		"Exit",
	})
	if err != nil {
		// Cancelling the top menu ends the session like Exit.
		return StateExit
	}
	switch idx {
	case 0:
		return StateLogTime
	case 1:
		return StateViewLogs
	case 2:
		return StateManageProjects
	case 3:
		return StateSettings
	}
	return StateExit
}

// report renders an operation failure as a user-visible message and
// returns control to the menu. Nothing here is fatal to the session.
func (c *Controller) report(err error) {
	var verr *ops.ValidationError
	var aerr *gateway.APIError
	var uerr *gateway.UnroutedMockError
	var cerr *store.CorruptError
	switch {
	case errors.As(err, &verr):
		c.ui.Show("Invalid " + verr.Field + ": " + verr.Reason)
	case errors.As(err, &aerr):
		c.ui.Show("Live API error: " + aerr.Error())
	case errors.As(err, &uerr):
		c.ui.Show("Mock API: " + uerr.Error())
	case errors.As(err, &cerr):
		c.ui.Show("Stored data problem: " + cerr.Error())
	default:
		c.ui.Show("Error: " + err.Error())
	}
	c.log.Warn("operation failed", zap.Error(err))
}

// askInt reads a required integer input. Empty input aborts the flow.
func (c *Controller) askInt(label string) (int, bool) {
	line, err := c.ui.Input(label)
	if err != nil || line == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		c.ui.Show(fmt.Sprintf("%q is not a number.", line))
		return 0, false
	}
	return n, true
}

func (c *Controller) logTime(ctx context.Context) {
	projects, err := c.ops.ListProjects()
	if err != nil {
		c.report(err)
		return
	}
	active := model.Catalog{Projects: projects}.Active()
	if len(active) == 0 {
		c.ui.Show("No active projects. Refresh the project list first.")
		return
	}

	options := make([]string, len(active))
	for i, p := range active {
		options[i] = fmt.Sprintf("%s – %s", p.Name, p.Description)
	}
	idx, err := c.ui.Select("Log time to which project?", options)
	if err != nil {
		return
	}

	date, err := c.ui.Input("Date (YYYY-MM-DD)")
	if err != nil || date == "" {
		return
	}
	hours, ok := c.askInt("Hours (0-23)")
	if !ok {
		return
	}
	minutes, ok := c.askInt("Minutes (0-59)")
	if !ok {
		return
	}
	note, err := c.ui.Input("Note (optional)")
	if err != nil {
		return
	}

	var res ops.LogResult
	err = c.ui.Busy("Logging time", func() error {
		var opErr error
		res, opErr = c.ops.LogTime(ctx, active[idx].UUID, date, hours, minutes, note)
		return opErr
	})
	if err != nil {
		c.report(err)
		return
	}
	c.ui.Show(fmt.Sprintf("Logged %s to %s on %s (id %s).",
		timecalc.FormatMinutes(timecalc.Minutes(res.Entry.Hours, res.Entry.Minutes)),
		res.Entry.ProjectName, res.Entry.Date, res.ID))
}

func (c *Controller) viewLogs(ctx context.Context) {
	date, err := c.ui.Input("Date (YYYY-MM-DD)")
	if err != nil || date == "" {
		return
	}

	var sum ops.DaySummary
	err = c.ui.Busy("Fetching logs", func() error {
		var opErr error
		sum, opErr = c.ops.ViewLogs(ctx, date)
		return opErr
	})
	if err != nil {
		c.report(err)
		return
	}

	if len(sum.Entries) == 0 {
		c.ui.Show("No logs for " + sum.Date + ".")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Logs for %s:\n", sum.Date)
	for _, e := range sum.Entries {
		fmt.Fprintf(&b, "  %-8s %-20s %s\n",
			timecalc.FormatMinutes(timecalc.Minutes(e.Hours, e.Minutes)), e.ProjectName, e.Note)
	}
	fmt.Fprintf(&b, "Total: %s", timecalc.FormatMinutes(sum.TotalMinutes))
	c.ui.Show(b.String())
}

func (c *Controller) manageProjects(ctx context.Context) {
	for {
		idx, err := c.ui.Select("Projects", []string{
			"List projects",
			"Refresh from server",
			"Back",
		})
		if err != nil || idx == 2 {
			return
		}
		switch idx {
		case 0:
			c.listProjects()
		case 1:
			c.refreshProjects(ctx)
		}
	}
}

func (c *Controller) listProjects() {
	projects, err := c.ops.ListProjects()
	if err != nil {
		c.report(err)
		return
	}
	if len(projects) == 0 {
		c.ui.Show("The project catalog is empty.")
		return
	}
	var b strings.Builder
	for i, p := range projects {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-20s [%s] %s", p.Name, p.Status, p.Description)
	}
	c.ui.Show(b.String())
}

func (c *Controller) refreshProjects(ctx context.Context) {
	var n int
	err := c.ui.Busy("Refreshing projects", func() error {
		var opErr error
		n, opErr = c.ops.RefreshProjects(ctx)
		return opErr
	})
	if err != nil {
		c.report(err)
		c.ui.Show("The local project list was left unchanged.")
		return
	}
	c.ui.Show(fmt.Sprintf("Project list updated (%d projects).", n))
}

func (c *Controller) settings() {
	for {
		idx, err := c.ui.Select("Settings", []string{
			"Edit user info",
			"Edit API settings",
			"Toggle mock mode",
			"Toggle request preview",
			"Back",
		})
		if err != nil || idx == 4 {
			return
		}
		switch idx {
		case 0:
			c.editUserInfo()
		case 1:
			c.editAPISettings()
		case 2:
			c.toggleMockMode()
		case 3:
			c.toggleRequestPreview()
		}
	}
}

func (c *Controller) editUserInfo() {
	u, err := c.ops.User()
	if err != nil {
		c.report(err)
		return
	}
	c.ui.Show(fmt.Sprintf("Current profile: %s <%s>", u.Name, u.Email))

	name, err := c.ui.Input("Name")
	if err != nil || name == "" {
		return
	}
	email, err := c.ui.Input("Email")
	if err != nil || email == "" {
		return
	}
	updated, err := c.ops.EditUserInfo(name, email)
	if err != nil {
		c.report(err)
		return
	}
	c.ui.Show(fmt.Sprintf("Profile saved: %s <%s>", updated.Name, updated.Email))
}

func (c *Controller) editAPISettings() {
	cfg, err := c.ops.Settings()
	if err != nil {
		c.report(err)
		return
	}
	c.ui.Show("Current API URL: " + cfg.APIURL)

	apiURL, err := c.ui.Input("API base URL")
	if err != nil || apiURL == "" {
		return
	}
	token, err := c.ui.Secret("API token")
	if err != nil || token == "" {
		return
	}
	updated, err := c.ops.EditAPISettings(apiURL, token)
	if err != nil {
		c.report(err)
		return
	}
	c.ui.Show("API settings saved for " + updated.APIURL + ".")
}

func (c *Controller) toggleMockMode() {
	cfg, err := c.ops.Settings()
	if err != nil {
		c.report(err)
		return
	}
	// Leaving mock mode is the consequential direction: real requests
	// start hitting the configured API.
	var question string
	if cfg.MockMode {
		question = "Switch to LIVE mode? Real HTTP requests will be sent to " + cfg.APIURL + "."
	} else {
		question = "Switch back to mock mode? API calls will return canned data."
	}
	yes, err := c.ui.Confirm(question)
	if err != nil || !yes {
		return
	}
	mock, err := c.ops.ToggleMockMode()
	if err != nil {
		c.report(err)
		return
	}
	if mock {
		c.ui.Show("Mock mode is ON: no network traffic will be generated.")
	} else {
		c.ui.Show("Mock mode is OFF: requests now go to the live API.")
	}
}

func (c *Controller) toggleRequestPreview() {
	on, err := c.ops.ToggleRequestPreview()
	if err != nil {
		c.report(err)
		return
	}
	if on {
		c.ui.Show("Request preview is ON: equivalent curl commands will be shown before each call.")
	} else {
		c.ui.Show("Request preview is OFF.")
	}
}
