/*-------------------------------------------------------------------------
 *
 * root.go
 *    Root command and global flags for neuronhr-cli
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/cli/cmd/root.go
 *
 *-------------------------------------------------------------------------
 */

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL       string
	apiToken     string
	tenantID     string
	userID       string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "neuronhr-cli",
	Short: "NeuronHR CLI - Inspect and settle pending data operations",
	Long: `NeuronHR CLI provides operator commands for the NeuronHR agent server.

Every data mutation the agent proposes is persisted as a pending
operation that waits for human confirmation. This CLI lists those
operations, shows their generated SQL and change summary, and settles
them: confirm, reject, or roll back.

Examples:
  # List pending operations
  neuronhr-cli operations list --status PENDING

  # Inspect one operation
  neuronhr-cli operations show <operation-id>

  # Confirm, reject, or roll back
  neuronhr-cli operations confirm <operation-id>
  neuronhr-cli operations reject <operation-id> --reason "wrong employee"
  neuronhr-cli operations rollback <operation-id>

  # Operation counts by status
  neuronhr-cli operations stats
`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", getEnvOrDefault("NEURONHR_URL", "http://localhost:8085"), "NeuronHR API URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", getEnvOrDefault("NEURONHR_TOKEN", ""), "NeuronHR API bearer token")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", getEnvOrDefault("NEURONHR_TENANT_ID", ""), "Tenant UUID (required)")
	rootCmd.PersistentFlags().StringVar(&userID, "user", getEnvOrDefault("NEURONHR_USER_ID", ""), "User UUID (required)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")

	rootCmd.AddCommand(operationsCmd)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireScope() error {
	if tenantID == "" {
		return fmt.Errorf("tenant is required (--tenant or NEURONHR_TENANT_ID)")
	}
	if userID == "" {
		return fmt.Errorf("user is required (--user or NEURONHR_USER_ID)")
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
