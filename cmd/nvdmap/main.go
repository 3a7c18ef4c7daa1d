// Command nvdmap converts an NVD CVE 1.1 JSON feed into NDJSON ready to be
// sent to a bulk index API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fleetdm/nvdmap/pkg/feedfile"
	"github.com/fleetdm/nvdmap/server/config"
	"github.com/fleetdm/nvdmap/server/contexts/ctxerr"
	"github.com/fleetdm/nvdmap/server/vulnerabilities/nvdfeed"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

func createRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nvdmap [input] [output]",
		Short: "Map an NVD CVE feed to bulk index NDJSON",
		Long: `
Map an NVD CVE 1.1 JSON feed to bulk index NDJSON.

Every CVE item of the feed is flattened into a single document carrying the
CVE id, publication and modification times, the English description, the CVSS
score with its decoded vector and the affected vendor:product pairs. Rejected
CVEs are dropped and the remaining documents are sorted by modification time,
most recent first. Each document is preceded by an index action line.

input defaults to ` + config.DefaultInputPath + ` and output to ` + config.DefaultOutputPath + `.
Positional arguments take precedence over flags, environment variables and the
config file.
`,
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a configuration file")

	configManager := config.NewManager(rootCmd)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := configManager.LoadConfig()
		if len(args) > 0 {
			cfg.Input.Path = args[0]
		}
		if len(args) > 1 {
			cfg.Output.Path = args[1]
		}

		logger := initLogger(cfg, cmd.ErrOrStderr())
		ctx := ctxerr.NewContext(cmd.Context(), logger)
		return ctxerr.Handle(ctx, runMapper(ctx, cfg, logger))
	}
	rootCmd.AddCommand(createConfigDumpCmd(configManager))

	return rootCmd
}

func main() {
	rootCmd := createRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogger(cfg config.MapperConfig, w io.Writer) kitlog.Logger {
	if cfg.Logging.File != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     28, //days
		}
	}

	var logger kitlog.Logger
	output := kitlog.NewSyncWriter(w)
	if cfg.Logging.JSON {
		logger = kitlog.NewJSONLogger(output)
	} else {
		logger = kitlog.NewLogfmtLogger(output)
	}
	if cfg.Logging.Debug {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	return kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
}

func initFatal(err error, message string) {
	fmt.Fprintf(os.Stderr, "Failed to start: %s: %s\n", message, err)
	os.Exit(1)
}

// runMapper maps the configured input feed and writes the result to the
// configured output. The output file is only replaced once every item has
// been mapped.
func runMapper(ctx context.Context, cfg config.MapperConfig, logger kitlog.Logger) error {
	start := time.Now()
	level.Info(logger).Log("msg", "mapping nvd feed", "input", cfg.Input.Path, "output", cfg.Output.Path)

	in, err := feedfile.Open(cfg.Input.Path)
	if err != nil {
		return ctxerr.Wrap(ctx, err, "open input feed")
	}
	defer in.Close()

	mapper := nvdfeed.NewMapper(logger, nvdfeed.WithScoreVerification(cfg.CVSS.VerifyScores))
	records, _, err := mapper.Process(ctx, in)
	if err != nil {
		return ctxerr.Wrapf(ctx, err, "map %s", cfg.Input.Path)
	}

	err = feedfile.WriteAtomic(cfg.Output.Path, func(w io.Writer) error {
		return nvdfeed.WriteBulk(w, records)
	})
	if err != nil {
		return ctxerr.Wrapf(ctx, err, "write %s", cfg.Output.Path)
	}

	level.Info(logger).Log("msg", "nvd feed mapped", "documents", len(records), "took", time.Since(start))
	return nil
}
