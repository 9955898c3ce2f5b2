// Package main provides the CLI entrypoint for barchart.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/MitjaBezensek/chart/internal/chart"
	"github.com/MitjaBezensek/chart/internal/config"
	"github.com/MitjaBezensek/chart/internal/dataset"
	"github.com/MitjaBezensek/chart/internal/format"
	"github.com/MitjaBezensek/chart/internal/logging"
	"github.com/MitjaBezensek/chart/internal/model"
	"github.com/MitjaBezensek/chart/internal/preview"
	"github.com/MitjaBezensek/chart/internal/store"
	"github.com/MitjaBezensek/chart/internal/surface"
)

const (
	defaultLocale = "en-US"
	defaultWidth  = 600.0
	defaultHeight = 400.0
)

var (
	configPath string
	dbPath     string
	logLevel   string
	logJSON    bool

	fmtLocale     string
	fmtDecimals   int
	fmtUnit       string
	fmtPercent    string
	fmtHideUnits  bool
	fmtFontFamily string
	fmtFontSize   float64
	fmtFontWeight string

	chartWidth     float64
	chartHeight    float64
	chartMargin    float64
	chartPadding   float64
	chartFill      string
	chartReconcile string

	srcCSV      string
	srcDataset  string
	srcCategory string
	srcValue    string

	renderOut    string
	renderFormat string

	formatMeasure bool

	importName string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "barchart",
		Short:         "Render bar charts with formatted data labels",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/barchart/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "dataset database (default: $XDG_DATA_HOME/barchart/barchart.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newFormatCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newDatasetsCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addFormatFlags(cmd *cobra.Command) {
	defaults := model.DefaultSettings().DataLabels
	cmd.Flags().StringVar(&fmtLocale, "locale", defaultLocale, "locale for number formatting")
	cmd.Flags().IntVar(&fmtDecimals, "decimals", defaults.DecimalPlaces, "decimal places")
	cmd.Flags().StringVar(&fmtUnit, "unit", string(defaults.DisplayUnit), "display unit (Auto, None, K, M, G, P, Relative)")
	cmd.Flags().StringVar(&fmtPercent, "percent-format", defaults.PercentageFormat, "percentage format pattern, e.g. 0.00%")
	cmd.Flags().BoolVar(&fmtHideUnits, "hide-units", defaults.HideUnits, "omit unit suffixes")
	cmd.Flags().StringVar(&fmtFontFamily, "font-family", defaults.FontFamily, "label font family")
	cmd.Flags().Float64Var(&fmtFontSize, "font-size", defaults.FontSize, "label font size in pixels")
	cmd.Flags().StringVar(&fmtFontWeight, "font-weight", defaults.FontWeight, "label font weight")
}

func addLayoutFlags(cmd *cobra.Command) {
	defaults := model.DefaultSettings().Chart
	cmd.Flags().Float64Var(&chartMargin, "margin", defaults.Margin, "margin in pixels")
	cmd.Flags().Float64Var(&chartPadding, "padding", defaults.Padding, "band padding (0-1)")
	cmd.Flags().StringVar(&chartReconcile, "reconcile", defaults.Reconcile, "element reconciliation (positional, keyed)")
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&chartWidth, "width", defaultWidth, "viewport width in pixels")
	cmd.Flags().Float64Var(&chartHeight, "height", defaultHeight, "viewport height in pixels")
	cmd.Flags().StringVar(&chartFill, "fill", model.DefaultSettings().Chart.Fill, "bar fill color")
	addLayoutFlags(cmd)
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&srcCSV, "csv", "", "CSV file with a header row (- for stdin)")
	cmd.Flags().StringVar(&srcDataset, "dataset", "", "stored dataset name")
	cmd.Flags().StringVar(&srcCategory, "category-column", "", "CSV category column (default: first)")
	cmd.Flags().StringVar(&srcValue, "value-column", "", "CSV value column (default: second)")
}

// loadSettings resolves config file and environment values under the flags
// of cmd and returns the resulting settings overrides.
func loadSettings(cmd *cobra.Command) (*model.SettingsOverrides, *zap.Logger, error) {
	fileCfg, _, err := config.Load(commandContext(cmd), configPath, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyBoolConfig(cmd, "log-json", &logJSON, fileCfg.Log.JSON)
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Store.Path)
	applyStringConfig(cmd, "locale", &fmtLocale, fileCfg.Format.Locale)
	applyFloatConfig(cmd, "width", &chartWidth, fileCfg.Chart.Width)
	applyFloatConfig(cmd, "height", &chartHeight, fileCfg.Chart.Height)

	overrides := fileCfg.Overrides()
	overrides.Merge(flagOverrides(cmd))
	if err := validateSettings(overrides); err != nil {
		return nil, nil, err
	}
	if chartWidth < 0 || chartHeight < 0 {
		return nil, nil, fmt.Errorf("width and height must be >= 0")
	}

	logger, err := logging.New(logLevel, logJSON)
	if err != nil {
		return nil, nil, err
	}
	return overrides, logger, nil
}

// flagOverrides returns the settings set explicitly on the command line.
func flagOverrides(cmd *cobra.Command) *model.SettingsOverrides {
	o := &model.SettingsOverrides{}
	if flagChanged(cmd, "decimals") {
		o.DataLabels.DecimalPlaces = &fmtDecimals
	}
	if flagChanged(cmd, "unit") {
		unit := model.DisplayUnit(fmtUnit)
		o.DataLabels.DisplayUnit = &unit
	}
	if flagChanged(cmd, "percent-format") {
		o.DataLabels.PercentageFormat = &fmtPercent
	}
	if flagChanged(cmd, "hide-units") {
		o.DataLabels.HideUnits = &fmtHideUnits
	}
	if flagChanged(cmd, "font-family") {
		o.DataLabels.FontFamily = &fmtFontFamily
	}
	if flagChanged(cmd, "font-size") {
		o.DataLabels.FontSize = &fmtFontSize
	}
	if flagChanged(cmd, "font-weight") {
		o.DataLabels.FontWeight = &fmtFontWeight
	}
	if flagChanged(cmd, "margin") {
		o.Chart.Margin = &chartMargin
	}
	if flagChanged(cmd, "padding") {
		o.Chart.Padding = &chartPadding
	}
	if flagChanged(cmd, "fill") {
		o.Chart.Fill = &chartFill
	}
	if flagChanged(cmd, "reconcile") {
		o.Chart.Reconcile = &chartReconcile
	}
	return o
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func validateSettings(o *model.SettingsOverrides) error {
	if v := o.DataLabels.DecimalPlaces; v != nil && *v < 0 {
		return fmt.Errorf("decimals must be >= 0")
	}
	if v := o.DataLabels.FontSize; v != nil && *v <= 0 {
		return fmt.Errorf("font-size must be > 0")
	}
	if v := o.Chart.Margin; v != nil && *v < 0 {
		return fmt.Errorf("margin must be >= 0")
	}
	if v := o.Chart.Padding; v != nil && (*v < 0 || *v >= 1) {
		return fmt.Errorf("padding must be in [0, 1)")
	}
	if v := o.Chart.Reconcile; v != nil && *v != model.ReconcilePositional && *v != model.ReconcileKeyed {
		return fmt.Errorf("reconcile must be %q or %q", model.ReconcilePositional, model.ReconcileKeyed)
	}
	return nil
}

// loadDataView reads the data view selected by --csv or --dataset and
// attaches the settings overrides to it.
func loadDataView(cmd *cobra.Command, logger *zap.Logger, overrides *model.SettingsOverrides) (*model.DataView, error) {
	var dv *model.DataView
	switch {
	case srcCSV != "" && srcDataset != "":
		return nil, fmt.Errorf("--csv and --dataset are mutually exclusive")
	case srcCSV != "":
		var err error
		dv, err = readCSVFile(cmd.InOrStdin(), srcCSV)
		if err != nil {
			return nil, err
		}
	case srcDataset != "":
		st, err := openStore()
		if err != nil {
			return nil, err
		}
		defer closeWithWarn(logger, st, "db")
		dv, err = st.LoadDataView(commandContext(cmd), srcDataset)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset %q: %w", srcDataset, err)
		}
	default:
		return nil, fmt.Errorf("one of --csv or --dataset is required")
	}
	dv.Metadata.Objects = overrides
	return dv, nil
}

func readCSVFile(stdin io.Reader, path string) (*model.DataView, error) {
	opts := dataset.CSVOptions{CategoryColumn: srcCategory, ValueColumn: srcValue}
	if path == "-" {
		dv, err := dataset.ReadCSV(stdin, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to read csv from stdin: %w", err)
		}
		return dv, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()
	dv, err := dataset.ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return dv, nil
}

func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart to SVG or PNG",
		Args:  cobra.NoArgs,
		RunE:  runRenderCmd,
	}
	addSourceFlags(cmd)
	addFormatFlags(cmd)
	addChartFlags(cmd)
	cmd.Flags().StringVarP(&renderOut, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().StringVar(&renderFormat, "format", "", "output format: svg or png (default: from file extension, else svg)")
	return cmd
}

func runRenderCmd(cmd *cobra.Command, _ []string) error {
	overrides, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	outFormat, err := resolveOutputFormat(renderFormat, renderOut)
	if err != nil {
		return err
	}
	dv, err := loadDataView(cmd, logger, overrides)
	if err != nil {
		return err
	}
	doc, visual, err := newVisual(logger)
	if err != nil {
		return err
	}
	if err := visual.Update(chart.UpdateOptions{
		DataViews: []*model.DataView{dv},
		Viewport:  model.Viewport{Width: chartWidth, Height: chartHeight},
	}); err != nil {
		return err
	}
	logger.Info("rendered chart",
		zap.Int("bars", len(doc.Elements(chart.ClassBar))),
		zap.String("format", outFormat),
		zap.String("output", renderOut),
	)

	if renderOut == "-" {
		return writeDocument(cmd.OutOrStdout(), doc, outFormat)
	}
	return writeDocumentFile(renderOut, doc, outFormat)
}

func resolveOutputFormat(explicit, out string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(explicit))
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	}
	switch f {
	case "", "svg":
		return "svg", nil
	case "png":
		return "png", nil
	default:
		return "", fmt.Errorf("unsupported output format %q", f)
	}
}

func newVisual(logger *zap.Logger) (*surface.Document, *chart.Visual, error) {
	doc := surface.NewDocument()
	visual, err := chart.New(doc, fmtLocale, chart.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return doc, visual, nil
}

func writeDocument(w io.Writer, doc *surface.Document, outFormat string) error {
	if outFormat == "png" {
		return doc.WritePNG(w, nil)
	}
	return doc.WriteSVG(w, nil)
}

func writeDocumentFile(path string, doc *surface.Document, outFormat string) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".barchart-*")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if rerr := os.Remove(tmpPath); rerr != nil && !os.IsNotExist(rerr) {
			// Best-effort cleanup of the temp file.
			_ = rerr
		}
	}()
	if err := writeDocument(tmpFile, doc, outFormat); err != nil {
		if cerr := tmpFile.Close(); cerr != nil {
			// Best-effort close after a failed write.
			_ = cerr
		}
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <value>...",
		Short: "Format values as data labels",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFormatCmd,
	}
	addFormatFlags(cmd)
	cmd.Flags().BoolVar(&formatMeasure, "measure", false, "also print the label width in pixels")
	return cmd
}

func runFormatCmd(cmd *cobra.Command, args []string) error {
	overrides, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	settings := model.DefaultSettings().With(overrides)
	opts := settings.FormatOptions(fmtLocale)
	var measurer *format.FontMeasurer
	if formatMeasure {
		measurer, err = format.NewFontMeasurer()
		if err != nil {
			return err
		}
	}
	for _, arg := range args {
		value, err := parseValue(arg)
		if err != nil {
			return err
		}
		label := format.FormatValue(value, opts)
		line := label
		if measurer != nil {
			width := format.MeasureTextWidth(measurer, label, settings.DataLabels.FontSize, settings.DataLabels.FontFamily, settings.DataLabels.FontWeight)
			line = fmt.Sprintf("%s\t%.1f", label, width)
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// parseValue parses a number; "null" and the empty string are a null value.
func parseValue(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return &v, nil
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print data points with labels and label widths",
		Args:  cobra.NoArgs,
		RunE:  runInspectCmd,
	}
	addSourceFlags(cmd)
	addFormatFlags(cmd)
	addChartFlags(cmd)
	return cmd
}

func runInspectCmd(cmd *cobra.Command, _ []string) error {
	overrides, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	dv, err := loadDataView(cmd, logger, overrides)
	if err != nil {
		return err
	}
	_, visual, err := newVisual(logger)
	if err != nil {
		return err
	}
	if err := visual.Update(chart.UpdateOptions{
		DataViews: []*model.DataView{dv},
		Viewport:  model.Viewport{Width: chartWidth, Height: chartHeight},
	}); err != nil {
		return err
	}
	if err := dataset.WritePoints(cmd.OutOrStdout(), visual.Points()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview a chart in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPreviewCmd,
	}
	addSourceFlags(cmd)
	addFormatFlags(cmd)
	addLayoutFlags(cmd)
	return cmd
}

func runPreviewCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("preview needs an interactive terminal; use render instead")
	}
	overrides, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	dv, err := loadDataView(cmd, logger, overrides)
	if err != nil {
		return err
	}
	// The preview owns the settings toggles, so the view carries none.
	dv.Metadata.Objects = nil

	doc := surface.NewDocument()
	visual, err := chart.New(doc, fmtLocale,
		chart.WithLogger(zap.NewNop()),
		chart.WithMeasurer(format.CellMeasurer{CellWidth: preview.CellWidth}),
	)
	if err != nil {
		return err
	}
	m := preview.NewModel(visual, doc, dv, overrides)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(commandContext(cmd)))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run preview: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		if v := os.Getenv(config.EnvConfigPath); v != "" {
			path = v
		} else {
			path = config.DefaultConfigPath()
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := model.DefaultSettings()
	return fmt.Sprintf(`# barchart configuration
# Uncomment a value to enable it. BARCHART_* environment variables override
# config values and CLI flags override both.

[format]
# locale = %q           # Locale for number formatting
# decimals = %d              # Decimal places
# unit = %q             # Auto, None, K, M, G, P, Relative
# percent-format = ""       # Percentage pattern, e.g. "0.00%%"
# hide-units = false        # Omit unit suffixes
# font-family = %q    # Label font family
# font-size = %.0f            # Label font size in pixels
# font-weight = %q     # Label font weight

[chart]
# width = %.0f              # Viewport width in pixels
# height = %.0f             # Viewport height in pixels
# margin = %.0f              # Margin in pixels
# padding = %.1f            # Band padding (0-1)
# fill = %q             # Bar fill color
# reconcile = %q  # positional or keyed

[store]
# path = ""                 # Dataset database path

[log]
# level = %q              # debug, info, warn, error
# json = false              # Log as JSON
`,
		defaultLocale,
		defaults.DataLabels.DecimalPlaces,
		string(defaults.DataLabels.DisplayUnit),
		defaults.DataLabels.FontFamily,
		defaults.DataLabels.FontSize,
		defaults.DataLabels.FontWeight,
		defaultWidth,
		defaultHeight,
		defaults.Chart.Margin,
		defaults.Chart.Padding,
		defaults.Chart.Fill,
		defaults.Chart.Reconcile,
		logging.DefaultLevel,
	)
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Syncing stderr fails on some terminals.
		_ = err
	}
}

// closeWithWarn closes c and logs a failure instead of returning it.
func closeWithWarn(logger *zap.Logger, c io.Closer, what string) {
	if err := c.Close(); err != nil {
		logger.Warn("failed to close "+what, zap.Error(err))
	}
}

// commandContext returns the command context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
