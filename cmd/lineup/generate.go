package main

import (
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/testpool"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		seed        int64
		teams       int
		perCategory map[string]int
		minPrice    int
		maxPrice    int
		missing     float64
		out         string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a deterministic synthetic candidate pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []testpool.Option{
				testpool.WithSeed(seed),
				testpool.WithTeams(teams),
				testpool.WithPriceRange(minPrice, maxPrice),
				testpool.WithMissingRate(missing),
			}
			for cat, n := range perCategory {
				opts = append(opts, testpool.WithCategory(model.Category(cat), n))
			}
			cands := testpool.Generate(opts...)
			if out == "" {
				data, err := testpool.Marshal(cands)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			return testpool.WriteFile(out, cands)
		},
	}
	def := testpool.DefaultConfig()
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "generator seed")
	cmd.Flags().IntVar(&teams, "teams", def.Teams, "number of teams")
	cmd.Flags().StringToIntVar(&perCategory, "per-category", nil, "candidates per category, e.g. GKP=6,DEF=14")
	cmd.Flags().IntVar(&minPrice, "min-price", def.MinPrice, "lowest price")
	cmd.Flags().IntVar(&maxPrice, "max-price", def.MaxPrice, "highest price")
	cmd.Flags().Float64Var(&missing, "missing-rate", 0, "share of candidates without a value")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
