package main

import (
	"github.com/okian/lineup/internal/domain/types"
	"github.com/spf13/cobra"
)

func newSquadsCmd(c *cli) *cobra.Command {
	var (
		pool         string
		requirements map[string]int
		keep         int
		decay        float64
		scorer       string
		cf           constraintFlags
	)
	cmd := &cobra.Command{
		Use:   "squads",
		Short: "Find the best squads in a candidate pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readPool(pool)
			if err != nil {
				return err
			}
			resp, err := c.svc.SearchSquads(cmd.Context(), types.SquadsRequest{
				Pool:         data,
				Requirements: requirements,
				Constraints:  cf.set(),
				Keep:         keep,
				Decay:        decay,
				Scorer:       scorer,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&pool, "pool", "", "candidate pool JSON file")
	cmd.Flags().StringToIntVar(&requirements, "requirements", nil, "category counts, e.g. GKP=2,DEF=5,MID=5,FWD=3")
	cmd.Flags().IntVar(&keep, "keep", 0, "squads to return (default from config)")
	cmd.Flags().Float64Var(&decay, "decay", 0, "threshold decay per round (default from config)")
	cmd.Flags().StringVar(&scorer, "scorer", types.ScorerCombined, "ranking: combined or aggregate")
	cf.register(cmd)
	return cmd
}
