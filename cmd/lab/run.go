package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/sanity-io/litter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/christopher-wolff-zz/lab-old/pkg/agent"
	"github.com/christopher-wolff-zz/lab-old/pkg/config"
	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	"github.com/christopher-wolff-zz/lab-old/pkg/environment"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
	"github.com/christopher-wolff-zz/lab-old/pkg/experiment"
	"github.com/christopher-wolff-zz/lab-old/pkg/logger"
	"github.com/christopher-wolff-zz/lab-old/pkg/report"
	"github.com/christopher-wolff-zz/lab-old/pkg/statistics"
)

func NewRunCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:          "run",
		Short:        "Run an experiment",
		Long:         "Run an experiment from a YAML config. Flags and LAB_* environment variables override the file.",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := readConfig()
			if err != nil {
				return err
			}
			l, closeLog, err := newLogger(cfg.Logging, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeLog()
			return runExperiment(cfg, l, cmd.OutOrStdout())
		},
	}
	root.AddCommand(c)
	c.Flags().SetNormalizeFunc(normalizeFlagName)
	c.Flags().StringP("config", "c", "", "Experiment config file")
	c.Flags().String("name", "", "Experiment name")
	c.Flags().Int("iterations", 0, "Number of train/eval iterations")
	c.Flags().Int("training-steps", 0, "Minimum steps per training phase")
	c.Flags().Int("evaluation-steps", 0, "Minimum steps per evaluation phase")
	c.Flags().Int("max-steps-per-episode", 0, "Episode step cap")
	c.Flags().Int64("seed", 0, "Seed for agent and environment")
	c.Flags().StringP("output", "o", "", "Directory to write reports to")
	c.Flags().StringSlice("format", nil, "Report formats: csv, html, xlsx")
	c.Flags().Int("smoothing-window", 0, "Moving average window for report charts")
	return c
}

var _ = NewRunCmd(rootCmd)

// normalizeFlagName accepts config file spellings such as --training_steps
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// readConfig loads the config file if one was given and applies flag and
// environment overrides on top of it
func readConfig() (*config.ExperimentConfig, error) {
	viper.SetEnvPrefix("LAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	cfg := config.DefaultConfig()
	if path := viper.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, labError.NewFromError(err, labError.ReadConfig)
		}
		cfg = loaded
	}

	if viper.IsSet("name") {
		cfg.Name = viper.GetString("name")
	}
	if viper.IsSet("iterations") {
		cfg.Iterations = viper.GetInt("iterations")
	}
	if viper.IsSet("training-steps") {
		cfg.TrainingSteps = viper.GetInt("training-steps")
	}
	if viper.IsSet("evaluation-steps") {
		cfg.EvaluationSteps = viper.GetInt("evaluation-steps")
	}
	if viper.IsSet("max-steps-per-episode") {
		cfg.MaxStepsPerEpisode = viper.GetInt("max-steps-per-episode")
	}
	if viper.IsSet("seed") {
		seed := viper.GetInt64("seed")
		cfg.Seed = &seed
	}
	if viper.IsSet("output") {
		cfg.Report.Path = viper.GetString("output")
	}
	if viper.IsSet("format") {
		cfg.Report.Formats = viper.GetStringSlice("format")
	}
	if viper.IsSet("smoothing-window") {
		cfg.Report.SmoothingWindow = viper.GetInt("smoothing-window")
	}
	if viper.GetBool("debug") {
		cfg.Logging.Level = "debug"
	}
	if viper.IsSet("logfile") {
		cfg.Logging.Path = viper.GetString("logfile")
	}
	if viper.GetBool("quiet") {
		cfg.Logging.Quiet = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the run logger. Output goes to stdout, the logfile or
// both, depending on quiet.
func newLogger(cfg config.LogConfig, stdout io.Writer) (logger.Logger, func(), error) {
	l := logger.NewLogger()
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, labError.NewFromError(err, labError.InvalidConfig)
	}
	l.SetLevel(level)

	noColor := viper.GetBool("no-color")
	l.SetFormatter(&log.TextFormatter{
		ForceColors:   !noColor,
		DisableColors: noColor,
		FullTimestamp: true,
	})

	closeLog := func() {}
	var out io.Writer = stdout
	if cfg.Quiet {
		out = io.Discard
	}
	if cfg.Path != "" {
		f, err := appFs.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, labError.NewFromError(fmt.Errorf("could not open %s for logging: %w", cfg.Path, err), labError.Unknown)
		}
		closeLog = func() { _ = f.Close() }
		if cfg.Quiet {
			out = f
		} else {
			out = io.MultiWriter(stdout, f)
		}
	}
	l.SetOutput(out)
	return l, closeLog, nil
}

func runExperiment(cfg *config.ExperimentConfig, l logger.Logger, out io.Writer) error {
	if logger.IsDebugLevel(l) {
		l.Debugf("Running with configuration:\n%s", litter.Sdump(cfg))
	}

	env, err := environment.FromConfig(cfg.Environment)
	if err != nil {
		return err
	}
	ag, err := agent.FromConfig(cfg.Agent, env.ObservationSpaceN(), env.ActionSpaceN(), agent.WithLogger(l))
	if err != nil {
		return err
	}

	au := aurora.NewAurora(!viper.GetBool("no-color"))
	opts := []experiment.Option{
		experiment.WithName(cfg.Name),
		experiment.WithIterations(cfg.Iterations),
		experiment.WithTrainingSteps(cfg.TrainingSteps),
		experiment.WithEvaluationSteps(cfg.EvaluationSteps),
		experiment.WithMaxStepsPerEpisode(cfg.MaxStepsPerEpisode),
		experiment.WithLogger(l),
	}
	if cfg.Seed != nil {
		opts = append(opts, experiment.WithSeed(*cfg.Seed))
	}
	if !cfg.Logging.Quiet {
		opts = append(opts, experiment.WithIterationCallback(iterationPrinter(out, au)))
	}

	ex, err := experiment.New(ag, env, opts...)
	if err != nil {
		return err
	}
	stats, err := ex.Run()
	if err != nil {
		return err
	}

	if cfg.Report.Path != "" && len(cfg.Report.Formats) > 0 {
		w := report.NewWriter(appFs, cfg.Report.Path, cfg.Report.SmoothingWindow, l)
		if _, err := w.Write(cfg.Name+"_"+ex.ID(), stats, cfg.Report.Formats...); err != nil {
			return err
		}
	}
	if !cfg.Logging.Quiet {
		printSummary(out, au, stats)
	}
	return nil
}

func iterationPrinter(out io.Writer, au aurora.Aurora) experiment.IterationCallback {
	trainKey := core.Train.Key(experiment.AverageReturnsKey)
	evalKey := core.Eval.Key(experiment.AverageReturnsKey)
	return func(_ *experiment.Experiment, i int, stats *statistics.IterationStatistics) {
		train, _ := stats.Last(trainKey)
		eval, _ := stats.Last(evalKey)
		fmt.Fprintf(out, "%v %4d  %v %8.3f  %v %8.3f\n",
			au.Bold("iteration"), i, au.Cyan("train"), train, au.Green("eval"), eval)
	}
}

func printSummary(out io.Writer, au aurora.Aurora, stats *statistics.IterationStatistics) {
	fmt.Fprintln(out, au.Bold("summary"))
	for _, s := range report.Summarize(stats) {
		if !strings.HasSuffix(s.Key, experiment.AverageReturnsKey) {
			continue
		}
		fmt.Fprintf(out, "  %-22s mean %v  std %8.3f  min %8.3f  max %8.3f\n",
			s.Key, au.Yellow(fmt.Sprintf("%8.3f", s.Mean)), s.StdDev, s.Min, s.Max)
	}
}
