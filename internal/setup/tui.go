package setup

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/splvaluer/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// Answers holds the wizard inputs as typed.
type Answers struct {
	Accounts     string
	MaxAttempts  string
	PollInterval string
	FieldIndex   string
	Headless     bool
	Format       string
	SnapshotDir  string
}

func answersFrom(conf config.Config) Answers {
	accounts := conf.DefaultAccounts
	if len(accounts) == 0 {
		accounts = config.DefaultAccounts
	}
	return Answers{
		Accounts:     strings.Join(accounts, ", "),
		MaxAttempts:  strconv.Itoa(conf.Scrape.MaxAttempts),
		PollInterval: conf.Scrape.PollInterval.String(),
		FieldIndex:   strconv.Itoa(conf.Scrape.FieldIndex),
		Headless:     conf.Scrape.Headless,
		Format:       conf.Format,
		SnapshotDir:  conf.SnapshotDir,
	}
}

// Apply writes the answers over base and validates the result.
func (a Answers) Apply(base config.Config) (config.Config, error) {
	conf := base

	accounts, err := parseAccounts(a.Accounts)
	if err != nil {
		return config.Config{}, err
	}
	conf.DefaultAccounts = accounts

	if conf.Scrape.MaxAttempts, err = strconv.Atoi(strings.TrimSpace(a.MaxAttempts)); err != nil {
		return config.Config{}, errors.Wrap(err, "max attempts")
	}
	if conf.Scrape.PollInterval, err = time.ParseDuration(strings.TrimSpace(a.PollInterval)); err != nil {
		return config.Config{}, errors.Wrap(err, "poll interval")
	}
	if conf.Scrape.FieldIndex, err = strconv.Atoi(strings.TrimSpace(a.FieldIndex)); err != nil {
		return config.Config{}, errors.Wrap(err, "field index")
	}
	conf.Scrape.Headless = a.Headless
	conf.Format = a.Format
	conf.SnapshotDir = strings.TrimSpace(a.SnapshotDir)

	if err := conf.Validate(); err != nil {
		return config.Config{}, err
	}
	return conf, nil
}

func parseAccounts(s string) ([]string, error) {
	var accounts config.AccountsFlag
	if err := accounts.Set(s); err != nil {
		return nil, errors.New("at least one account is required")
	}
	return accounts, nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func validateIndex(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative whole number")
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func step(title string) {
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("SPLVALUER CONFIG WIZARD"))
	fmt.Println(stepStyle.Render(title))
}

// RunTUI launches the terminal configuration wizard, starting from base,
// and writes the result to path.
func RunTUI(path string, base config.Config) error {
	answers := answersFrom(base)
	var confirm bool

	step("STEP 1: ACCOUNTS")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Which accounts should be valued by default?\n"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Accounts").
				Description("Comma or newline separated player names").
				Value(&answers.Accounts).
				Validate(func(s string) error {
					_, err := parseAccounts(strings.ReplaceAll(s, "\n", ","))
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}
	answers.Accounts = strings.ReplaceAll(answers.Accounts, "\n", ",")

	step("STEP 2: SCRAPER")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Max attempts").
				Description("How many times to read the collection value (e.g. 100)").
				Value(&answers.MaxAttempts).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Poll interval").
				Description("Duration string (e.g. 200ms, 1s)").
				Value(&answers.PollInterval).
				Validate(validateDuration),
			huh.NewInput().
				Title("Field index").
				Description("Position of the value among the page's labeled figures").
				Value(&answers.FieldIndex).
				Validate(validateIndex),
			huh.NewConfirm().
				Title("Run the browser headless?").
				Value(&answers.Headless),
		),
	).Run()
	if err != nil {
		return err
	}

	step("STEP 3: OUTPUT")
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Report format").
				Options(
					huh.NewOption("Table", config.FormatTable),
					huh.NewOption("Markdown", config.FormatMarkdown),
				).
				Value(&answers.Format),
			huh.NewInput().
				Title("History directory").
				Description("Where valuations are kept; leave empty to keep no history").
				Value(&answers.SnapshotDir),
		),
	).Run()
	if err != nil {
		return err
	}

	conf, err := answers.Apply(base)
	if err != nil {
		return err
	}

	step("FINAL CONFIRMATION")
	summary := fmt.Sprintf(
		"Accounts: %s\nAttempts: %d every %s\nField: .%s[%d]\nFormat: %s\nHistory: %s\n",
		strings.Join(conf.DefaultAccounts, ", "),
		conf.Scrape.MaxAttempts, conf.Scrape.PollInterval,
		conf.Scrape.CSSClass, conf.Scrape.FieldIndex,
		conf.Format, orNone(conf.SnapshotDir),
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	if err := conf.Save(path); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", path)))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
