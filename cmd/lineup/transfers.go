package main

import (
	"github.com/okian/lineup/internal/domain/types"
	"github.com/spf13/cobra"
)

func newTransfersCmd(c *cli) *cobra.Command {
	var (
		pool         string
		roster       []string
		maxTransfers int
		keep         int
		objective    string
		requireGain  bool
		cf           constraintFlags
	)
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Propose transfers for an existing roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readPool(pool)
			if err != nil {
				return err
			}
			req := types.TransfersRequest{
				Pool:        data,
				Roster:      roster,
				Constraints: cf.set(),
				Keep:        keep,
				Objective:   objective,
				RequireGain: requireGain,
			}
			if cmd.Flags().Changed("max-transfers") {
				req.MaxTransfers = &maxTransfers
			}
			resp, err := c.svc.SearchTransfers(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&pool, "pool", "", "candidate pool JSON file")
	cmd.Flags().StringSliceVar(&roster, "roster", nil, "current roster candidate IDs")
	cmd.Flags().IntVar(&maxTransfers, "max-transfers", 0, "largest number of swaps (default from config)")
	cmd.Flags().IntVar(&keep, "keep", 0, "plans to return (default from config)")
	cmd.Flags().StringVar(&objective, "objective", "combined", "ranking: combined or gain")
	cmd.Flags().BoolVar(&requireGain, "require-gain", false, "reject swaps that lose value")
	_ = cmd.MarkFlagRequired("roster")
	cf.register(cmd)
	return cmd
}
