package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"semord/internal/corpus"
	"semord/internal/game"
	"semord/internal/leaderboard"
	"semord/internal/puzzle"
	"semord/internal/similarity"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	port            int
	env             string
	timezone        string
	corpusPath      string
	store           string
	databaseURL     string
	snapshotPath    string
	retentionDays   int
	maxDaysBack     int
	statsMatch      string
	kafkaBrokers    string
	kafkaTopic      string
	metricsEnabled  bool
	rateLimitRPS    int
	rateLimitBurst  int
	historyCacheAge time.Duration
	janitorInterval time.Duration
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.store {
	case StoreMemory:
	case StorePostgres:
		if c.databaseURL == "" {
			return errors.New("--database-url is required when --store=postgres")
		}
	default:
		return fmt.Errorf("invalid store %q: want %s or %s", c.store, StoreMemory, StorePostgres)
	}
	if c.maxDaysBack < 1 {
		return fmt.Errorf("invalid max-days-back: %d", c.maxDaysBack)
	}
	if c.retentionDays < c.maxDaysBack {
		return fmt.Errorf("retention-days (%d) must cover max-days-back (%d)", c.retentionDays, c.maxDaysBack)
	}
	if _, err := leaderboard.ParseMatchMode(c.statsMatch); err != nil {
		return err
	}
	if _, err := c.location(); err != nil {
		return err
	}
	if c.rateLimitRPS < 1 || c.rateLimitBurst < 1 {
		return fmt.Errorf("rate limits must be positive (rps %d, burst %d)", c.rateLimitRPS, c.rateLimitBurst)
	}
	return nil
}

// production follows the env flag and gin's own release mode variable.
func (c *Config) production() bool {
	return c.env == "production" || os.Getenv("GIN_MODE") == "release"
}

func (c *Config) location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.timezone, err)
	}
	return loc, nil
}

func (c *Config) loadCorpus() (*corpus.Corpus, error) {
	if c.corpusPath == "" {
		return corpus.Default()
	}
	return corpus.LoadFile(c.corpusPath)
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "semord",
		Short:         "Daily Swedish semantic word game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE:          runServe(cfg),
	}

	pfs := cmd.PersistentFlags()
	pfs.SetNormalizeFunc(normalizeFlag)
	pfs.StringVar(&cfg.timezone, "timezone", "UTC", "time zone that decides the calendar day (env: TIMEZONE)")
	pfs.StringVar(&cfg.corpusPath, "corpus-path", "", "word list JSON to use instead of the embedded one (env: CORPUS_PATH)")

	pfs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: PORT)")
	pfs.StringVar(&cfg.env, "env", "development", "runtime environment, production enables release mode (env: ENV)")
	pfs.StringVar(&cfg.store, "store", StoreMemory, "state backend: memory or postgres (env: STORE)")
	pfs.StringVar(&cfg.databaseURL, "database-url", "", "PostgreSQL connection string (env: DATABASE_URL)")
	pfs.StringVar(&cfg.snapshotPath, "snapshot-path", "data/state.json", "memory store snapshot file, empty disables (env: SNAPSHOT_PATH)")
	pfs.IntVar(&cfg.retentionDays, "retention-days", 90, "days of sessions and leaderboards to keep (env: RETENTION_DAYS)")
	pfs.IntVar(&cfg.maxDaysBack, "max-days-back", game.DefaultMaxDaysBack, "largest days window for history and stats (env: MAX_DAYS_BACK)")
	pfs.StringVar(&cfg.statsMatch, "stats-match", string(leaderboard.MatchContains), "player stats name matching: contains or exact (env: STATS_MATCH)")
	pfs.StringVar(&cfg.kafkaBrokers, "kafka-brokers", "", "comma separated Kafka brokers for round events (env: KAFKA_BROKERS)")
	pfs.StringVar(&cfg.kafkaTopic, "kafka-topic", "semord-rounds", "Kafka topic for round events (env: KAFKA_TOPIC)")
	pfs.BoolVar(&cfg.metricsEnabled, "metrics-enabled", true, "serve Prometheus metrics on /metrics (env: METRICS_ENABLED)")
	pfs.IntVar(&cfg.rateLimitRPS, "rate-limit-rps", 5, "requests per second per client (env: RATE_LIMIT_RPS)")
	pfs.IntVar(&cfg.rateLimitBurst, "rate-limit-burst", 10, "request burst per client (env: RATE_LIMIT_BURST)")
	pfs.DurationVar(&cfg.historyCacheAge, "history-cache-age", 5*time.Minute, "Cache-Control max-age for past-day leaderboards (env: HISTORY_CACHE_AGE)")
	pfs.DurationVar(&cfg.janitorInterval, "janitor-interval", time.Hour, "how often expired state is pruned (env: JANITOR_INTERVAL)")

	bindEnv(v, pfs)

	cmd.AddCommand(newServeCmd(cfg), newWordCmd(cfg), newScoreCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("semord v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// bindEnv lets each flag default to the environment variable of the same name.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func runServe(cfg *Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if err := cfg.validate(); err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	}
}

func newServeCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default).",
		Args:  cobra.ExactArgs(0),
		RunE:  runServe(cfg),
	}
}

func newWordCmd(cfg *Config) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "word",
		Short: "Print the word of the day.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cfg.loadCorpus()
			if err != nil {
				return err
			}
			loc, err := cfg.location()
			if err != nil {
				return err
			}
			sel := puzzle.NewSelector(c, puzzle.WithLocation(loc))
			d := sel.Today()
			if date != "" {
				if d, err = sel.ParseDate(date); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", puzzle.DateKey(d), sel.WordForDate(d))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	return cmd
}

func newScoreCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "score <guess> <target>",
		Short: "Print the similarity of a guess to a target word.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cfg.loadCorpus()
			if err != nil {
				return err
			}
			if !c.Lookup(args[0]).InDictionary {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q is not in the dictionary\n", corpus.Normalize(args[0]))
			}
			res := similarity.Score(c, args[0], args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f %s (%s, rule %s)\n", res.Similarity, res.Band, res.Band.Label(), res.Rule)
			return nil
		},
	}
}
