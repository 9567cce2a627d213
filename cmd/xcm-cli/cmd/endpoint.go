// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type endpointCmdResponse struct {
	Endpoint string `json:"endpoint"`
}

func (r endpointCmdResponse) String() string {
	return r.Endpoint
}

func newEndpointCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Manage endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			endpoint, err := c.getConfigValue(cmd, "endpoint", true)
			if err != nil {
				return fmt.Errorf("failed to get endpoint: %w", err)
			}
			return c.printValue(cmd, endpointCmdResponse{Endpoint: endpoint})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set [endpoint]",
		Short: "Persist the default endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setConfigValue("endpoint", args[0]); err != nil {
				return fmt.Errorf("failed to save endpoint: %w", err)
			}
			return c.printValue(cmd, endpointCmdResponse{Endpoint: args[0]})
		},
	})
	return cmd
}
