// Command lineup runs squad and transfer searches from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	service "github.com/okian/lineup/internal/app"
	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/internal/domain/constraint"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// cli holds state shared by subcommands once the root pre-run has loaded
// configuration.
type cli struct {
	configPath string
	logLevel   string

	cfg *config.Config
	svc *service.Service
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "lineup",
		Short:         "Constrained roster optimizer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (defaults to $LINEUP_CONFIG)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	root.AddCommand(newSquadsCmd(c), newTransfersCmd(c), newGenerateCmd())
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	// Results go to stdout; logs stay on stderr.
	if err := logger.SetOutput(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	cfg, err := config.Load(cmd.Context(), c.configPath)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		return err
	}
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		return err
	}
	c.cfg = cfg
	c.svc = service.New(
		service.WithWorkers(cfg.Workers),
		service.WithKeep(cfg.Keep),
		service.WithDecay(cfg.Decay),
		service.WithMaxRounds(cfg.MaxRounds),
		service.WithMaxTransfers(cfg.MaxTransfers),
		service.WithCatalogueLimit(cfg.CatalogueLimit),
		service.WithMemoSize(cfg.MemoSize),
		service.WithLogger(logger.Get().Named("lineup")),
	)
	return nil
}

// constraintFlags are the flags shared by squads and transfers.
type constraintFlags struct {
	lower, upper int
	maxPerTeam   int
	include      []string
	exclude      []string
	excludeTeams []string
	minValue     float64
	topPerPrice  int
	teamQuota    map[string]int

	cmd *cobra.Command
}

func (f *constraintFlags) register(cmd *cobra.Command) {
	f.cmd = cmd
	fl := cmd.Flags()
	fl.IntVar(&f.lower, "lower", 0, "minimum squad price")
	fl.IntVar(&f.upper, "upper", 1000, "maximum squad price")
	fl.IntVar(&f.maxPerTeam, "max-per-team", 3, "maximum members from one team, 0 for unlimited")
	fl.StringSliceVar(&f.include, "include", nil, "candidate IDs every squad must contain")
	fl.StringSliceVar(&f.exclude, "exclude", nil, "candidate IDs no squad may contain")
	fl.StringSliceVar(&f.excludeTeams, "exclude-team", nil, "teams no squad may draw from")
	fl.Float64Var(&f.minValue, "min-value", 0, "skip candidates valued below this")
	fl.IntVar(&f.topPerPrice, "top-per-price", 0, "keep the N best candidates per category and price, 0 for all")
	fl.StringToIntVar(&f.teamQuota, "category-team-quota", nil, "per-category team quota, e.g. DEF=2")
}

func (f *constraintFlags) set() constraint.Set {
	s := constraint.Set{
		Lower:        f.lower,
		Upper:        f.upper,
		MaxPerTeam:   f.maxPerTeam,
		Include:      f.include,
		Exclude:      f.exclude,
		ExcludeTeams: f.excludeTeams,
		TopPerPrice:  f.topPerPrice,
	}
	if f.cmd != nil && f.cmd.Flags().Changed("min-value") {
		s.MinValue = model.Float(f.minValue)
	}
	if len(f.teamQuota) > 0 {
		s.CategoryTeamQuota = make(map[model.Category]int, len(f.teamQuota))
		for cat, n := range f.teamQuota {
			s.CategoryTeamQuota[model.Category(cat)] = n
		}
	}
	return s
}

func readPool(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--pool is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
