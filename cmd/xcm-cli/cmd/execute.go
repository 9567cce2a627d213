// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/rpc"
)

type executeCmdResponse struct {
	*rpc.ExecuteReply
}

func (r executeCmdResponse) String() string {
	if r.Error != "" {
		return fmt.Sprintf("%s weight=%d error=%s", r.Outcome, r.Weight, r.Error)
	}
	return fmt.Sprintf("%s weight=%d", r.Outcome, r.Weight)
}

func newExecuteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "execute [origin] [message hex or file]",
		Short: "Execute a versioned message on a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := location.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid origin: %w", err)
			}
			msg, err := decodeFileOrHex(args[1])
			if err != nil {
				return err
			}
			if err := checkMessageSize(msg); err != nil {
				return err
			}
			client, err := c.client(cmd)
			if err != nil {
				return err
			}
			reply, err := client.Execute(cmd.Context(), origin, msg)
			if err != nil {
				return fmt.Errorf("failed to execute: %w", err)
			}
			return c.printValue(cmd, executeCmdResponse{reply})
		},
	}
}
