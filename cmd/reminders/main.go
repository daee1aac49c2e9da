// Entry point for the reminders CLI: parses an Excel workbook looking for
// open action items due soon and emails the people responsible.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/action-reminders/reminders-go/pkg/config"
	"github.com/action-reminders/reminders-go/pkg/delivery"
	"github.com/action-reminders/reminders-go/pkg/history"
	"github.com/action-reminders/reminders-go/pkg/mail"
	"github.com/action-reminders/reminders-go/pkg/records"
	"github.com/action-reminders/reminders-go/pkg/reminders"
	"github.com/action-reminders/reminders-go/pkg/spreadsheet"
	"github.com/action-reminders/reminders-go/utils"
)

// Exit codes: 0 success or nothing to do, 1 spreadsheet not found, 2
// invalid user records, 3 invalid action records, 4 config file not found,
// 5 configuration incomplete.
const (
	exitOK             = 0
	exitSpreadsheet    = 1
	exitInvalidUsers   = 2
	exitInvalidActions = 3
	exitConfigMissing  = 4
	exitConfigErrors   = 5
)

const nl = "\n\t"

// options are the parsed command line arguments.
type options struct {
	config      string
	spreadsheet string
	person      string
	days        int
	interactive bool
	cron        string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options
	fs := flag.NewFlagSet("reminders", flag.ContinueOnError)
	fs.StringVar(&opts.config, "config", "", "Configuration file")
	fs.StringVar(&opts.config, "c", "", "Configuration file (shorthand)")
	fs.StringVar(&opts.spreadsheet, "spreadsheet", "", "Excel spreadsheet to query")
	fs.StringVar(&opts.spreadsheet, "s", "", "Excel spreadsheet to query (shorthand)")
	fs.StringVar(&opts.person, "person", "", "Specify person for whom to generate reminders")
	fs.StringVar(&opts.person, "p", "", "Specify person for whom to generate reminders (shorthand)")
	fs.IntVar(&opts.days, "days", 14, "Number of days ahead of deadline to warn")
	fs.IntVar(&opts.days, "d", 14, "Number of days ahead of deadline to warn (shorthand)")
	fs.BoolVar(&opts.interactive, "interactive", false, "Interactive mode allows viewing per user data before sending")
	fs.BoolVar(&opts.interactive, "i", false, "Interactive mode (shorthand)")
	fs.StringVar(&opts.cron, "cron", "", "Cron expression for periodic bulk runs")
	if err := fs.Parse(args); err != nil {
		return exitSpreadsheet
	}

	cfg := config.Default()
	if opts.config != "" {
		info, err := os.Stat(opts.config)
		if err != nil || info.IsDir() {
			fmt.Printf("%s is not a file\n", opts.config)
			return exitConfigMissing
		}
		cfg, err = config.Load(opts.config)
		if err != nil {
			fmt.Println(err)
			return exitConfigMissing
		}
	}
	utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)

	if errors := cfg.CheckRequired(); len(errors) > 0 {
		fmt.Printf("Configuration errors:%s%s\n", nl, strings.Join(errors, nl))
		return exitConfigErrors
	}

	if opts.spreadsheet != "" {
		cfg.Source.Spreadsheet = opts.spreadsheet
	}

	if opts.cron != "" {
		return runScheduled(cfg, opts)
	}
	return runOnce(cfg, opts)
}

// runScheduled runs the bulk pipeline on a cron schedule, re-reading the
// spreadsheet on every tick. Blocks until the process is stopped.
func runScheduled(cfg *config.Config, opts options) int {
	if opts.interactive {
		fmt.Println("The cron mode cannot be combined with interactive mode")
		return exitSpreadsheet
	}

	logger := utils.GetLogger()
	c := cron.New()
	_, err := c.AddFunc(opts.cron, func() {
		if code := runOnce(cfg, opts); code != exitOK {
			logger.Error("Scheduled run failed", nil, utils.Int("exit_code", code))
		}
	})
	if err != nil {
		fmt.Printf("Invalid cron expression %q: %v\n", opts.cron, err)
		return exitSpreadsheet
	}

	logger.Info("Scheduler started", utils.String("cron", opts.cron))
	c.Run()
	return exitOK
}

// runOnce executes one full pipeline pass: load, validate, filter,
// correlate, deliver.
func runOnce(cfg *config.Config, opts options) int {
	path := cfg.Source.Spreadsheet
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		fmt.Printf("%s is not a file!\n", path)
		return exitSpreadsheet
	}

	engine := &reminders.Engine{
		UserField:   cfg.Source.UserField,
		EmailField:  cfg.Source.EmailField,
		IDField:     cfg.Source.IDField,
		DueField:    cfg.Source.DueField,
		StatusField: cfg.Source.StatusField,
		OpenStatus:  cfg.Source.OpenStatus,
		Preamble:    cfg.Message.Preamble,
		Close:       cfg.Message.Close,
		Columns:     cfg.Message.Columns,
		Align:       cfg.Message.Align,
	}

	users, err := spreadsheet.Load(path, cfg.Source.UsersTab)
	if err != nil {
		fmt.Println(err)
		return exitSpreadsheet
	}
	if errors := engine.ValidateUsers(users); len(errors) > 0 {
		fmt.Printf("Invalid users: %s%s\n", nl, strings.Join(errors, nl))
		return exitInvalidUsers
	}

	actions, err := spreadsheet.Load(path, cfg.Source.ActionsTab)
	if err != nil {
		fmt.Println(err)
		return exitSpreadsheet
	}
	if errors := engine.ValidateActions(actions); len(errors) > 0 {
		fmt.Printf("Invalid actions: %s%s\n", nl, strings.Join(errors, nl))
		return exitInvalidActions
	}

	// closed items may reference users no longer in the system, so filter
	// before correlating
	actions = engine.OpenActions(actions)
	actions = engine.DueBefore(actions, time.Now().AddDate(0, 0, opts.days))
	actions = engine.SortByDue(actions)

	groups, err := engine.Correlate(users, actions)
	if err != nil {
		fmt.Println(err)
		return exitSpreadsheet
	}

	if opts.person != "" {
		groups, err = filterPerson(groups, users, opts.person)
		if err != nil {
			fmt.Println(err)
			return exitSpreadsheet
		}
	}

	if len(groups) == 0 {
		filterInfo := ""
		if opts.person != "" {
			filterInfo = fmt.Sprintf(" for %s", opts.person)
		}
		fmt.Printf("No open user actions found in %s%s in the next %d days\n", path, filterInfo, opts.days)
		return exitOK
	}

	logger := utils.GetLogger()
	runID := uuid.NewString()
	mode := "bulk"
	if opts.interactive {
		mode = "interactive"
	}

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("Send history disabled", utils.Error(err))
			store = nil
		} else {
			defer store.Close()
			if err := store.StartRun(runID, opts.days, mode); err != nil {
				logger.Warn("Failed to record run", utils.Error(err))
			}
		}
	}

	dialer := &mail.Dialer{
		Server:   cfg.Mail.Server,
		Port:     cfg.Mail.Port,
		From:     cfg.Mail.From,
		Password: cfg.Mail.Password,
	}
	orchestrator := &delivery.Orchestrator{
		Engine:  engine,
		From:    cfg.Mail.From,
		Subject: cfg.Mail.Subject,
		CC:      cfg.Mail.CC,
		Open:    dialer.Dial,
		Prompt:  readLine,
		Out:     os.Stdout,
		History: store,
		RunID:   runID,
		Logger:  logger,
	}

	if opts.interactive {
		err = orchestrator.Interactive(groups, opts.days)
	} else {
		err = orchestrator.SendAll(groups, opts.days)
	}
	if err != nil {
		fmt.Println(err)
		return exitSpreadsheet
	}
	return exitOK
}

// filterPerson reduces the grouping to the single resolved person. An
// unknown person simply yields no groups, like any other empty result; an
// ambiguous one is an error.
func filterPerson(groups []reminders.Group, users []records.Record, person string) ([]reminders.Group, error) {
	target, err := reminders.FindUser(users, person)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, nil
	}

	var filtered []reminders.Group
	for _, group := range groups {
		if group.User.Row() == target.Row() {
			filtered = append(filtered, group)
		}
	}
	return filtered, nil
}

var stdin = bufio.NewReader(os.Stdin)

// readLine prompts and performs a blocking read of one line.
func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
