// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperxcm/codec"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/rpc"
	"github.com/ava-labs/hyperxcm/utils"
)

var ErrInputEmpty = errors.New("input is empty")

// getConfigValue prefers the flag named [key] over the persisted setting.
func (c *cli) getConfigValue(cmd *cobra.Command, key string, required bool) (string, error) {
	if value, err := cmd.Flags().GetString(key); err == nil && value != "" {
		return value, nil
	}
	if value := c.settings.GetString(key); value != "" {
		return value, nil
	}
	if required {
		return "", fmt.Errorf("required value for %s not found", key)
	}
	return "", nil
}

func (c *cli) setConfigValue(key, value string) error {
	c.settings.Set(key, value)
	return c.settings.WriteConfig()
}

func (c *cli) client(cmd *cobra.Command) (*rpc.JSONRPCClient, error) {
	endpoint, err := c.getConfigValue(cmd, "endpoint", true)
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	return rpc.NewJSONRPCClient(endpoint), nil
}

func (c *cli) printValue(cmd *cobra.Command, v fmt.Stringer) error {
	output, err := c.getConfigValue(cmd, "output", false)
	if err != nil {
		return err
	}
	if strings.ToLower(output) == "json" {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.String())
	return nil
}

// decodeFileOrHex reads a message given either as hex or as a file path.
func decodeFileOrHex(fileNameOrHex string) ([]byte, error) {
	if decoded, err := codec.LoadHex(fileNameOrHex, -1); err == nil {
		return decoded, nil
	}
	if contents, err := utils.LoadBytes(fileNameOrHex, -1); err == nil {
		return contents, nil
	}
	return nil, errors.New("unable to decode input as hex, or read as file path")
}

func checkMessageSize(msg []byte) error {
	if len(msg) > consts.MaxMessageSize {
		return fmt.Errorf("message of %d bytes exceeds %d", len(msg), consts.MaxMessageSize)
	}
	return nil
}
