/*-------------------------------------------------------------------------
 *
 * main.go
 *    Main entry point for neuronhr-cli
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/cli/main.go
 *
 *-------------------------------------------------------------------------
 */

package main

import (
	"github.com/neurondb/NeuronHR/cli/cmd"
)

func main() {
	cmd.Execute()
}
