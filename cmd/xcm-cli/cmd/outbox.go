// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/policy"
	"github.com/ava-labs/hyperxcm/utils"
)

type outboxCmdResponse struct {
	Envelopes []*policy.Envelope `json:"envelopes"`
	Dropped   uint64             `json:"dropped"`
}

func (r outboxCmdResponse) String() string {
	lines := utils.Map(func(e *policy.Envelope) string {
		return fmt.Sprintf("%s %s", e.Dest, codec.ToHex(e.Message))
	}, r.Envelopes)
	lines = append(lines, fmt.Sprintf("%d queued, %d dropped", len(r.Envelopes), r.Dropped))
	return strings.Join(lines, "\n")
}

func newOutboxCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "List messages queued for other consensus systems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			take, err := cmd.Flags().GetBool("take")
			if err != nil {
				return err
			}
			client, err := c.client(cmd)
			if err != nil {
				return err
			}
			envelopes, dropped, err := client.Outbox(cmd.Context(), limit, take)
			if err != nil {
				return fmt.Errorf("failed to read outbox: %w", err)
			}
			return c.printValue(cmd, outboxCmdResponse{Envelopes: envelopes, Dropped: dropped})
		},
	}
	cmd.Flags().Int("limit", 0, "maximum number of envelopes (0 for the server maximum)")
	cmd.Flags().Bool("take", false, "remove the listed envelopes from the outbox")
	return cmd
}
