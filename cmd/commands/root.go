// Package commands implements the truckload command tree.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/guttosm/truckload/config"
	"github.com/guttosm/truckload/internal/app"
	"github.com/guttosm/truckload/internal/domain/dto"
	"github.com/guttosm/truckload/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is reported by --version and attached to traces.
const Version = "0.1.0"

// flagKeys maps flag names to their viper keys.
var flagKeys = map[string]string{
	"config":       config.KeyConfigFile,
	"item-set":     config.KeyItemSet,
	"options":      config.KeyOptions,
	"output":       config.KeyOutput,
	"path":         config.KeyOutputPath,
	"long":         config.KeyOutputLong,
	"jsonl":        config.KeyOutputJSONL,
	"metric":       config.KeyMetric,
	"workers":      config.KeyWorkers,
	"cache-size":   config.KeyCacheSize,
	"node-limit":   config.KeyNodeLimit,
	"tolerance":    config.KeyTolerance,
	"log-level":    config.KeyLogLevel,
	"log-pretty":   config.KeyLogPretty,
	"metrics-file": config.KeyMetricsFile,
	"trace-file":   config.KeyTraceFile,
}

// session carries state shared by the commands of one execution.
type session struct {
	v   *viper.Viper
	cfg config.Config
}

// Execute runs the command tree with os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCmd(config.NewViper())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree around v. Flags are bound onto v when a command runs.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	rt := &session{v: v}

	root := &cobra.Command{
		Use:   "truckload",
		Short: "Search truck-sized order batches",
		Long: `truckload enumerates combinations of category orders whose material
cost fills a truck according to a cost metric.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (yaml, json or toml)")
	flags.String("item-set", v.GetString(config.KeyItemSet), "Item set to search (warden, material-grouped-warden)")
	flags.String("options", "", "Restriction options JSON file")
	flags.Bool("output", false, "Write result files")
	flags.String("path", v.GetString(config.KeyOutputPath), "Output directory")
	flags.Bool("long", false, "Write long-format batches")
	flags.String("jsonl", "", "Also write one JSON record per result to this file")
	flags.Int("workers", v.GetInt(config.KeyWorkers), "Search goroutines")
	flags.Int("cache-size", v.GetInt(config.KeyCacheSize), "Queue cache entries (0 disables)")
	flags.String("log-level", v.GetString(config.KeyLogLevel), "Log level (trace, debug, info, warn, error, disabled)")
	flags.Bool("log-pretty", false, "Human-readable logs")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	flags.String("trace-file", "", "Write trace spans to this file")

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	root.AddCommand(
		newBatchesCmd(rt),
		newPrimeGroupsCmd(rt),
		newSolveCmd(rt),
		newQueuesCmd(rt),
		newLegendCmd(rt),
	)
	return root
}

// load binds the flags of the running command and loads the configuration.
func (rt *session) load(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = rt.v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := config.Load(rt.v)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	app.InitializeLogger(cfg.Log)
	return nil
}

// run wires an App for command, runs fn inside a traced context and prints the summary.
func (rt *session) run(cmd *cobra.Command, command string, fn func(context.Context, *app.App) (dto.RunSummary, error)) (err error) {
	ctx := cmd.Context()
	shutdown, err := telemetry.Init(ctx, "truckload", Version, rt.cfg.Telemetry.TraceFile)
	if err != nil {
		return err
	}
	defer func() {
		if serr := shutdown(context.WithoutCancel(ctx)); err == nil {
			err = serr
		}
	}()

	a, err := app.InitializeApp(rt.cfg, command)
	if err != nil {
		return err
	}
	summary, err := fn(ctx, a)
	renderSummary(cmd.ErrOrStderr(), summary)
	return err
}
