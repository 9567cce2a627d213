// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/utils"
)

type balanceCmdResponse struct {
	Account string `json:"account"`
	Address string `json:"address"`
	Asset   string `json:"asset"`
	Amount  string `json:"amount"`
}

func (r balanceCmdResponse) String() string {
	return fmt.Sprintf("%s (%s): %s of %s", r.Account, r.Address, r.Amount, r.Asset)
}

func newBalanceCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [account]",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := location.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid account: %w", err)
			}
			rawAsset, err := cmd.Flags().GetString("asset")
			if err != nil {
				return err
			}
			decimals, err := cmd.Flags().GetInt("decimals")
			if err != nil {
				return err
			}
			id, err := asset.ParseID(rawAsset)
			if err != nil {
				return fmt.Errorf("invalid asset: %w", err)
			}
			client, err := c.client(cmd)
			if err != nil {
				return err
			}
			addr, amount, err := client.Balance(cmd.Context(), account, id)
			if err != nil {
				return fmt.Errorf("failed to get balance: %w", err)
			}
			return c.printValue(cmd, balanceCmdResponse{
				Account: account.String(),
				Address: addr,
				Asset:   id.String(),
				Amount:  utils.FormatAmount(amount, decimals),
			})
		},
	}
	cmd.Flags().String("asset", "..", "asset id")
	cmd.Flags().Int("decimals", 0, "fractional digits to display")
	return cmd
}
