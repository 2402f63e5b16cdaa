package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/tuannvm/stackforge/internal/config"
	"github.com/tuannvm/stackforge/internal/types"
)

// WizardOptions configures the configuration wizard
type WizardOptions struct {
	Initial    *types.ProjectConfiguration
	Accessible bool
}

// WizardResult contains the configuration the user built
type WizardResult struct {
	Config    types.ProjectConfiguration
	Cancelled bool
}

// answers holds the form values. huh binds to plain fields, so the optional
// flags of the configuration are flattened here.
type answers struct {
	Name            string
	Description     string
	Language        string
	PackageManager  string
	Database        string
	ORM             string
	Auth            string
	UILibrary       string
	StateManagement string
	Testing         string
	ReactCompiler   bool
	SkipInstall     bool
}

func newAnswers(initial *types.ProjectConfiguration) *answers {
	var partial types.ProjectConfiguration
	if initial != nil {
		partial = *initial
	}
	name := partial.Name
	cfg := config.Resolve(&partial)
	a := cfg.Architecture
	return &answers{
		Name:            name,
		Description:     cfg.Description,
		Language:        a.Language,
		PackageManager:  a.PackageManager,
		Database:        a.Database,
		ORM:             a.ORM,
		Auth:            a.Auth,
		UILibrary:       a.UILibrary,
		StateManagement: a.StateManagement,
		Testing:         a.Testing,
		ReactCompiler:   a.UsesReactCompiler(),
		SkipInstall:     a.SkipsInstall(),
	}
}

// config converts the answers to a resolved configuration. An empty name
// gets a generated one.
func (w *answers) config() types.ProjectConfiguration {
	return config.Resolve(&types.ProjectConfiguration{
		Name:        w.Name,
		Description: w.Description,
		Architecture: types.Architecture{
			Language:        w.Language,
			ReactCompiler:   types.Bool(w.ReactCompiler),
			PackageManager:  w.PackageManager,
			Database:        w.Database,
			ORM:             w.ORM,
			Auth:            w.Auth,
			UILibrary:       w.UILibrary,
			StateManagement: w.StateManagement,
			Testing:         w.Testing,
			SkipInstall:     types.Bool(w.SkipInstall),
		},
	})
}

// RunWizard asks for every stack choice and returns the resolved configuration
func RunWizard(opts WizardOptions) (*WizardResult, error) {
	accessible := opts.Accessible || !isTerminal()
	w := newAnswers(opts.Initial)

	if !accessible {
		fmt.Print("\033[H\033[2J")
		fmt.Println(Banner())
	}

	confirmed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("npm package name; leave empty for a generated one").
				Validate(validateName).
				Value(&w.Name),
			huh.NewInput().
				Title("Description").
				Value(&w.Description),
			huh.NewSelect[string]().
				Title("Language").
				Options(huhOptions(config.LanguageOptions)...).
				Value(&w.Language),
			huh.NewSelect[string]().
				Title("Package manager").
				Options(huhOptions(config.PackageManagerOptions)...).
				Value(&w.PackageManager),
		).Title("Project"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Database").
				Options(huhOptions(config.DatabaseOptions)...).
				Value(&w.Database),
			huh.NewSelect[string]().
				Title("ORM").
				Description("Only ORMs that support the database are offered").
				OptionsFunc(func() []huh.Option[string] {
					return huhOptions(config.ORMOptionsFor(w.Database))
				}, &w.Database).
				Value(&w.ORM),
			huh.NewSelect[string]().
				Title("Authentication").
				OptionsFunc(func() []huh.Option[string] {
					return huhOptions(authOptionsFor(w.Database, w.ORM))
				}, []any{&w.Database, &w.ORM}).
				Value(&w.Auth),
		).Title("Data"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("UI library").
				Options(huhOptions(config.UILibraryOptions)...).
				Value(&w.UILibrary),
			huh.NewSelect[string]().
				Title("State management").
				Options(huhOptions(config.StateManagementOptions)...).
				Value(&w.StateManagement),
			huh.NewSelect[string]().
				Title("Testing").
				Options(huhOptions(config.TestingOptions)...).
				Value(&w.Testing),
			huh.NewConfirm().
				Title("React Compiler").
				Value(&w.ReactCompiler),
			huh.NewConfirm().
				Title("Skip dependency install").
				Value(&w.SkipInstall),
		).Title("Frontend"),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(StackforgeTheme()).WithAccessible(accessible)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return &WizardResult{Cancelled: true}, nil
		}
		return nil, fmt.Errorf("form error: %w", err)
	}
	if !confirmed {
		return &WizardResult{Cancelled: true}, nil
	}

	cfg := w.config()
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return &WizardResult{Config: cfg}, nil
}

// huhOptions converts shared option definitions to select options
func huhOptions(opts []config.Option) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(opts))
	for _, o := range opts {
		label := o.Label
		if o.Description != "" {
			label += " - " + o.Description
		}
		out = append(out, huh.NewOption(label, o.Value))
	}
	return out
}

// authOptionsFor offers Better Auth only when a database and ORM are selected
func authOptionsFor(db, orm string) []config.Option {
	if db == types.DatabaseNone || orm == types.ORMNone {
		var out []config.Option
		for _, o := range config.AuthOptions {
			if o.Value == types.AuthNone {
				out = append(out, o)
			}
		}
		return out
	}
	return config.AuthOptions
}

func validateName(name string) error {
	if name == "" {
		return nil
	}
	cfg := config.Resolve(&types.ProjectConfiguration{
		Name:         name,
		Architecture: types.Architecture{Database: types.DatabaseNone, ORM: types.ORMNone, Auth: types.AuthNone},
	})
	return config.Validate(cfg)
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
