// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperxcm/xcm"
)

type decodeCmdResponse struct {
	Type    string      `json:"type"`
	Program xcm.Program `json:"program"`
}

func (r decodeCmdResponse) String() string {
	b, err := json.MarshalIndent(r.Program, "", "  ")
	if err != nil {
		return r.Type
	}
	return fmt.Sprintf("%s %s", r.Type, b)
}

func newDecodeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [message hex or file]",
		Short: "Decode a versioned message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := decodeFileOrHex(args[0])
			if err != nil {
				return err
			}
			program, err := xcm.UnmarshalVersioned(msg)
			if err != nil {
				return fmt.Errorf("failed to decode: %w", err)
			}
			name := fmt.Sprintf("%T", program)
			if len(name) > 0 && name[0] == '*' {
				name = name[1:]
			}
			return c.printValue(cmd, decodeCmdResponse{Type: name, Program: program})
		},
	}
}
