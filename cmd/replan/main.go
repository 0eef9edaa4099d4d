package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/replan/internal/cli"
	"github.com/julianstephens/replan/internal/config"
	"github.com/julianstephens/replan/internal/constants"
	"github.com/julianstephens/replan/internal/errors"
	"github.com/julianstephens/replan/internal/logger"
	"github.com/julianstephens/replan/internal/storage"
	"github.com/julianstephens/replan/internal/utils"
)

var CLI struct {
	Version      kong.VersionFlag
	SettingsFile string `help:"Settings file (YAML or JSON)." type:"path" default:"${settings}"`
	Config       string `help:"Database path; a .json path selects the JSON store." type:"path"`
	Verbose      bool   `short:"v" help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize replan storage."`
	Show     cli.ShowCmd     `cmd:"" help:"Show the current timetable." default:"1"`
	Solve    cli.SolveCmd    `cmd:"" help:"Re-plan the rest of the day with minimal changes."`
	Validate cli.ValidateCmd `cmd:"" help:"Check the timetable for violations."`
	Activity struct {
		Add    cli.ActivityAddCmd    `cmd:"" help:"Add an activity."`
		Edit   cli.ActivityEditCmd   `cmd:"" help:"Edit an activity."`
		Remove cli.ActivityRemoveCmd `cmd:"" help:"Remove an activity."`
	} `cmd:"" help:"Edit the current timetable."`
	Undo    cli.UndoCmd  `cmd:"" help:"Undo the last change."`
	Redo    cli.RedoCmd  `cmd:"" help:"Redo the last undone change."`
	Reset   cli.ResetCmd `cmd:"" help:"Reset the current timetable to the default."`
	Default struct {
		Set cli.DefaultSetCmd `cmd:"" help:"Make the current timetable the default."`
	} `cmd:"" help:"Manage the default timetable."`
	Template struct {
		Save   cli.TemplateSaveCmd   `cmd:"" help:"Save the current timetable as a template."`
		Load   cli.TemplateLoadCmd   `cmd:"" help:"Replace the current timetable with a template."`
		List   cli.TemplateListCmd   `cmd:"" help:"List templates."`
		Delete cli.TemplateDeleteCmd `cmd:"" help:"Delete a template."`
		Export cli.TemplateExportCmd `cmd:"" help:"Export templates as JSON."`
		Import cli.TemplateImportCmd `cmd:"" help:"Import templates from JSON."`
	} `cmd:"" help:"Manage templates."`
	Override struct {
		Set   cli.OverrideSetCmd   `cmd:"" help:"Use a template on a date."`
		Get   cli.OverrideGetCmd   `cmd:"" help:"Show the template for a date."`
		Clear cli.OverrideClearCmd `cmd:"" help:"Remove the override for a date."`
		List  cli.OverrideListCmd  `cmd:"" help:"List day overrides."`
		Apply cli.OverrideApplyCmd `cmd:"" help:"Load the template chosen for a date."`
	} `cmd:"" help:"Manage per-date template overrides."`
	Clock struct {
		Set   cli.ClockSetCmd   `cmd:"" help:"Set the clock used by solve."`
		Clear cli.ClockClearCmd `cmd:"" help:"Clear the clock."`
		Show  cli.ClockShowCmd  `cmd:"" help:"Show the clock."`
	} `cmd:"" help:"Manage the solver clock."`
	Settings struct {
		Show cli.SettingsShowCmd `cmd:"" help:"Show day settings."`
		Set  cli.SettingsSetCmd  `cmd:"" help:"Change day settings."`
	} `cmd:"" help:"Manage day settings."`
	Runs   cli.RunsCmd `cmd:"" help:"Show recent solve runs."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a database backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a backup."`
	} `cmd:"" help:"Manage database backups."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`
	Debug  cli.DebugCmd  `cmd:"" help:"Debugging helpers."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive viewer."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Re-plan the rest of your day with as few changes as possible"),
		kong.UsageOnError(),
		kong.Vars{
			"version":  constants.Version,
			"settings": constants.DefaultSettingsFile,
		},
	)

	// The default settings file is optional; an explicit one is not.
	optional := CLI.SettingsFile == mustExpand(constants.DefaultSettingsFile)
	cfg, err := config.Load(CLI.SettingsFile, optional)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Config != "" {
		cfg.Database = CLI.Config
	}
	if CLI.Verbose {
		cfg.Debug = true
	}

	logDir, err := utils.ExpandPath(cfg.LogDir)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, LogDir: logDir}); err != nil {
		errors.Fatal(err)
	}

	dbPath, err := utils.ExpandPath(cfg.Database)
	if err != nil {
		errors.Fatal(err)
	}
	store := storage.New(dbPath)
	defer store.Close()

	appCtx := &cli.Context{
		Store:  store,
		Config: cfg,
	}

	logger.Debug("Running command", "command", ctx.Command(), "database", dbPath)
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func mustExpand(path string) string {
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}
