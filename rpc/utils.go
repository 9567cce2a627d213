// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"strings"

	"github.com/ava-labs/hyperxcm/xcm"
)

// typeName is the bare name of a program or order type.
func typeName(v any) string {
	name := fmt.Sprintf("%T", v)
	return name[strings.LastIndex(name, ".")+1:]
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func outcomeReply(out xcm.Outcome, reply *ExecuteReply) {
	reply.Outcome = out.Kind.String()
	reply.Weight = out.WeightUsed()
	reply.Error = errString(out.Err)
}
