package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/replan/internal/config"
	"github.com/julianstephens/replan/internal/constants"
	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/search"
	"github.com/julianstephens/replan/internal/solver"
	"github.com/julianstephens/replan/internal/state"
	"github.com/julianstephens/replan/internal/storage"
	"github.com/julianstephens/replan/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
	Out    io.Writer        // defaults to os.Stdout
	Now    func() time.Time // defaults to time.Now
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) config() *config.Config {
	if c.Config == nil {
		cfg := config.Default()
		c.Config = &cfg
	}
	return c.Config
}

// loadSession opens the store and rebuilds the session from it.
func (c *Context) loadSession() (*state.Session, error) {
	if err := c.Store.Load(); err != nil {
		return nil, err
	}
	rec, err := c.Store.GetSession()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return state.FromRecord(rec, state.WithHistoryLimit(c.config().HistoryLimit)), nil
}

func (c *Context) saveSession(sess *state.Session) error {
	if err := c.Store.SaveSession(sess.Record()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// persist saves the session and, after a solve, its audit record.
func (c *Context) persist(sess *state.Session, out *solver.Outcome) error {
	if err := c.saveSession(sess); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := c.Store.AddSolveRecord(out.Record(c.now())); err != nil {
		return fmt.Errorf("failed to record solve run: %w", err)
	}
	return nil
}

func (c *Context) settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (c *Context) bounds() (models.DayBounds, error) {
	settings, err := c.settings()
	if err != nil {
		return models.DayBounds{}, err
	}
	return utils.BoundsFromSettings(settings)
}

func (c *Context) searcher() *search.Searcher {
	return c.config().Search.Searcher()
}

// today returns the current date in the configured timezone.
func (c *Context) today() (string, error) {
	settings, err := c.settings()
	if err != nil {
		return "", err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return "", err
	}
	return c.now().In(loc).Format(constants.DateFormat), nil
}

// confirm asks a yes/no question unless assumeYes is set.
func confirm(title string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// resolveActivity finds an activity by 1-based position or by name.
func resolveActivity(tt models.Timetable, target string) (int, error) {
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(tt) {
			return 0, fmt.Errorf("activity #%d out of range (1-%d)", n, len(tt))
		}
		return n - 1, nil
	}
	if i := tt.IndexOf(target); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("activity not found: %s", target)
}

// parseClock accepts HH:MM or "now" for the wall clock in timezone.
func (c *Context) parseClock(value string) (int, error) {
	if !strings.EqualFold(value, "now") {
		return utils.ParseTimeToMinutes(value)
	}
	settings, err := c.settings()
	if err != nil {
		return 0, err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return 0, err
	}
	return utils.MinutesSinceMidnight(c.now().In(loc)), nil
}
