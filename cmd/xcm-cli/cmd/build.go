// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/utils"
	"github.com/ava-labs/hyperxcm/xcm"
)

type buildCmdResponse struct {
	Message codec.Bytes `json:"message"`
	Path    string      `json:"path,omitempty"`
}

func (r buildCmdResponse) String() string {
	if r.Path != "" {
		return fmt.Sprintf("wrote %d bytes to %s", len(r.Message), r.Path)
	}
	return r.Message.String()
}

func newBuildCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a versioned message",
	}
	cmd.PersistentFlags().String("asset", "", "asset id")
	cmd.PersistentFlags().String("amount", "", "decimal amount")
	cmd.PersistentFlags().String("beneficiary", "", "location receiving the assets")
	cmd.PersistentFlags().String("out", "", "write the message to a file instead of printing it")
	cmd.PersistentFlags().Int("decimals", 0, "fractional digits of amounts")

	transfer := &cobra.Command{
		Use:   "transfer",
		Short: "Build a TransferAsset message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			what, beneficiary, err := promptTransfer(cmd)
			if err != nil {
				return err
			}
			return c.writeMessage(cmd, &xcm.TransferAsset{
				Assets:      asset.Assets{what},
				Beneficiary: beneficiary,
			})
		},
	}

	deposit := &cobra.Command{
		Use:   "deposit",
		Short: "Build a paid ReserveAssetDeposited message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			what, beneficiary, err := promptTransfer(cmd)
			if err != nil {
				return err
			}
			fee, err := promptAmount(cmd, "fee", "Fee")
			if err != nil {
				return err
			}
			if fee.Gt(&what.Amount) {
				return fmt.Errorf("fee %s exceeds amount %s", fee.Dec(), what.Amount.Dec())
			}
			weight, err := cmd.Flags().GetUint64("weight")
			if err != nil {
				return err
			}
			debt, err := cmd.Flags().GetUint64("debt")
			if err != nil {
				return err
			}
			return c.writeMessage(cmd, &xcm.ReserveAssetDeposited{
				Assets: asset.Assets{what},
				Effects: []xcm.Order{
					&xcm.BuyExecution{
						Fees:   asset.NewFungibleAmount(what.ID, fee),
						Weight: weight,
						Debt:   debt,
					},
					&xcm.DepositAsset{
						Assets:      asset.All(),
						MaxAssets:   1,
						Beneficiary: beneficiary,
					},
				},
			})
		},
	}
	deposit.Flags().String("fee", "", "amount of the deposited asset paying for execution")
	deposit.Flags().Uint64("weight", 0, "weight bought for inline instructions")
	deposit.Flags().Uint64("debt", 0, "weight already consumed by the message")

	cmd.AddCommand(transfer, deposit)
	return cmd
}

// promptAmount reads the amount flag [name] scaled by the decimals flag.
func promptAmount(cmd *cobra.Command, name, label string) (*uint256.Int, error) {
	decimals, err := cmd.Flags().GetInt("decimals")
	if err != nil {
		return nil, err
	}
	raw, err := flagOrPrompt(cmd, name, label, func(s string) error {
		_, err := utils.ParseAmount(s, decimals)
		return err
	})
	if err != nil {
		return nil, err
	}
	amount, _ := utils.ParseAmount(raw, decimals)
	if amount.Gt(asset.MaxAmount) {
		return nil, fmt.Errorf("%w: %s", asset.ErrOverflow, raw)
	}
	return amount, nil
}

func validateLocation(s string) error {
	_, err := location.Parse(s)
	return err
}

func validateAssetID(s string) error {
	_, err := asset.ParseID(s)
	return err
}

func promptTransfer(cmd *cobra.Command) (asset.Asset, location.Location, error) {
	rawID, err := flagOrPrompt(cmd, "asset", "Asset", validateAssetID)
	if err != nil {
		return asset.Asset{}, location.Location{}, err
	}
	amount, err := promptAmount(cmd, "amount", "Amount")
	if err != nil {
		return asset.Asset{}, location.Location{}, err
	}
	rawBeneficiary, err := flagOrPrompt(cmd, "beneficiary", "Beneficiary", validateLocation)
	if err != nil {
		return asset.Asset{}, location.Location{}, err
	}
	id, _ := asset.ParseID(rawID)
	beneficiary, _ := location.Parse(rawBeneficiary)
	return asset.NewFungibleAmount(id, amount), beneficiary, nil
}

func (c *cli) writeMessage(cmd *cobra.Command, program xcm.Program) error {
	msg, err := xcm.MarshalVersioned(program)
	if err != nil {
		return err
	}
	if err := checkMessageSize(msg); err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if out != "" {
		if err := utils.SaveBytes(out, msg); err != nil {
			return err
		}
	}
	return c.printValue(cmd, buildCmdResponse{Message: msg, Path: out})
}
