// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/stmt-import/internal/config"
	"fjacquet/stmt-import/internal/container"
	"fjacquet/stmt-import/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ImportFlags mirror the import section of the configuration. A flag only
// takes effect when it is set on the command line.
type ImportFlags struct {
	Encoding           string
	Separator          string
	QuoteChar          string
	HasHeader          bool
	DateFormat         string
	DecimalSeparator   string
	ThousandsSeparator string
	OnError            string
	CreatePartner      bool
	Sheet              string
}

// Options holds the persistent flags and the container built from them.
type Options struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Input      string
	Journal    string
	LedgerDir  string
	Import     ImportFlags

	containerOpts []container.Option
	container     *container.Container
}

// WithContainerOptions passes opts to the container built before a command runs.
// Tests use it to inject a logger or an in-memory ledger.
func (o *Options) WithContainerOptions(opts ...container.Option) {
	o.containerOpts = append(o.containerOpts, opts...)
}

// Container returns the container built for the running command.
func (o *Options) Container() (*container.Container, error) {
	if o.container == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return o.container, nil
}

// NewCommand creates the root command. Subcommands are added by the caller.
func NewCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stmt-import",
		Short: "Import bank statement files into a ledger.",
		Long: `stmt-import reads bank statements exported as CSV or XLSX, maps their
columns to transaction fields and files the valid rows as one statement
in a ledger journal. Use "test" for a dry run before "import".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initialize(cmd.Flags())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.container == nil {
				return nil
			}
			return opts.container.Close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Config file (default searches $HOME/.stmt-import, .stmt-import and .)")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogFormat, "log-format", "text", "Log format (text, json)")
	flags.StringVarP(&opts.Input, "input", "i", "", "Statement file (.csv or .xlsx)")
	flags.StringVarP(&opts.Journal, "journal", "j", "", "Ledger journal code")
	flags.StringVar(&opts.LedgerDir, "ledger-dir", "", "Ledger directory")

	imp := &opts.Import
	flags.StringVar(&imp.Encoding, "encoding", "utf-8", "Text encoding (utf-8, utf-16, windows-1252, latin1)")
	flags.StringVar(&imp.Separator, "separator", "comma", "Field separator (comma, semicolon, tab, space)")
	flags.StringVar(&imp.QuoteChar, "quote-char", `"`, "Quote character")
	flags.BoolVar(&imp.HasHeader, "has-header", true, "First row holds column names")
	flags.StringVar(&imp.DateFormat, "date-format", "eu_slash", "Date format (eu_slash, iso_dash, us_slash, eu_dash, eu_dot, iso_slash, eu_short, us_short)")
	flags.StringVar(&imp.DecimalSeparator, "decimal-separator", "dot", "Decimal separator (dot, comma)")
	flags.StringVar(&imp.ThousandsSeparator, "thousands-separator", "comma", "Thousands separator (comma, dot, space)")
	flags.StringVar(&imp.OnError, "on-error", "fail", "Row error policy (fail, skip)")
	flags.BoolVar(&imp.CreatePartner, "create-partner", true, "Create partners that do not exist yet")
	flags.StringVar(&imp.Sheet, "sheet", "", "Workbook sheet (default first sheet)")

	return cmd
}

// initialize loads the configuration, applies explicit flags and wires the container.
func (o *Options) initialize(flags *pflag.FlagSet) error {
	config.LoadEnv(nil)

	cfg, err := config.InitializeConfigFile(o.ConfigFile)
	if err != nil {
		return err
	}
	o.applyFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	c, err := container.NewContainer(cfg, o.containerOpts...)
	if err != nil {
		return err
	}
	logging.SetDefaultLogger(c.GetLogger())

	if ic, _ := cfg.ImportConfiguration(); ic.SeparatorsCollide() {
		c.GetLogger().Warn("Decimal and thousands separators are the same character, amounts lose their decimals")
	}
	o.container = c
	return nil
}

// applyFlags copies every flag set on the command line into cfg.
func (o *Options) applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	strFlags := []struct {
		name string
		dst  *string
		val  string
	}{
		{"log-level", &cfg.Log.Level, o.LogLevel},
		{"log-format", &cfg.Log.Format, o.LogFormat},
		{"journal", &cfg.Ledger.Journal, o.Journal},
		{"ledger-dir", &cfg.Ledger.Directory, o.LedgerDir},
		{"encoding", &cfg.Import.Encoding, o.Import.Encoding},
		{"separator", &cfg.Import.Separator, o.Import.Separator},
		{"quote-char", &cfg.Import.QuoteChar, o.Import.QuoteChar},
		{"date-format", &cfg.Import.DateFormat, o.Import.DateFormat},
		{"decimal-separator", &cfg.Import.DecimalSeparator, o.Import.DecimalSeparator},
		{"thousands-separator", &cfg.Import.ThousandsSeparator, o.Import.ThousandsSeparator},
		{"on-error", &cfg.Import.OnError, o.Import.OnError},
		{"sheet", &cfg.Import.Sheet, o.Import.Sheet},
	}
	for _, f := range strFlags {
		if flags.Changed(f.name) {
			*f.dst = f.val
		}
	}

	if flags.Changed("has-header") {
		cfg.Import.HasHeader = o.Import.HasHeader
	}
	if flags.Changed("create-partner") {
		cfg.Import.CreatePartner = o.Import.CreatePartner
	}
}
