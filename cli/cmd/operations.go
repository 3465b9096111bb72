/*-------------------------------------------------------------------------
 *
 * operations.go
 *    Pending operation commands for neuronhr-cli
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/cli/cmd/operations.go
 *
 *-------------------------------------------------------------------------
 */

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurondb/NeuronHR/cli/pkg/client"
)

var (
	operationsCmd = &cobra.Command{
		Use:   "operations",
		Short: "Inspect and settle pending data operations",
	}

	operationsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List operations in the tenant scope",
		RunE:  listOperations,
	}

	operationsShowCmd = &cobra.Command{
		Use:   "show [operation-id]",
		Short: "Show operation details including SQL and changes",
		Args:  cobra.ExactArgs(1),
		RunE:  showOperation,
	}

	operationsConfirmCmd = &cobra.Command{
		Use:   "confirm [operation-id]",
		Short: "Confirm and execute a pending operation",
		Args:  cobra.ExactArgs(1),
		RunE:  confirmOperation,
	}

	operationsRejectCmd = &cobra.Command{
		Use:   "reject [operation-id]",
		Short: "Reject a pending operation",
		Args:  cobra.ExactArgs(1),
		RunE:  rejectOperation,
	}

	operationsRollbackCmd = &cobra.Command{
		Use:   "rollback [operation-id]",
		Short: "Roll back an executed operation",
		Args:  cobra.ExactArgs(1),
		RunE:  rollbackOperation,
	}

	operationsStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show operation counts by status",
		RunE:  operationStats,
	}

	listStatus   string
	listLimit    int
	rejectReason string
)

func init() {
	operationsListCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (PENDING, EXECUTED, REJECTED, EXPIRED, FAILED, ROLLED_BACK)")
	operationsListCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of operations to list")
	operationsRejectCmd.Flags().StringVar(&rejectReason, "reason", "", "Rejection reason")

	operationsCmd.AddCommand(operationsListCmd)
	operationsCmd.AddCommand(operationsShowCmd)
	operationsCmd.AddCommand(operationsConfirmCmd)
	operationsCmd.AddCommand(operationsRejectCmd)
	operationsCmd.AddCommand(operationsRollbackCmd)
	operationsCmd.AddCommand(operationsStatsCmd)
}

func newAPIClient() (*client.Client, error) {
	if err := requireScope(); err != nil {
		return nil, err
	}
	return client.NewClient(apiURL, apiToken, tenantID, userID), nil
}

func listOperations(cmd *cobra.Command, args []string) error {
	apiClient, err := newAPIClient()
	if err != nil {
		return err
	}

	list, err := apiClient.ListOperations(listStatus, listLimit)
	if err != nil {
		return fmt.Errorf("failed to list operations: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(list)
	}

	if list.Total == 0 {
		fmt.Println("No operations found")
		return nil
	}

	fmt.Printf("\nOperations (%d):\n", list.Total)
	fmt.Println("─────────────────────────────────────────────────────────")
	for _, op := range list.Operations {
		fmt.Printf("  %-36s %-12s %-8s %s\n", op.ID, op.Status, op.RiskLevel, op.Description)
	}
	fmt.Println()

	return nil
}

func showOperation(cmd *cobra.Command, args []string) error {
	apiClient, err := newAPIClient()
	if err != nil {
		return err
	}

	op, err := apiClient.GetOperation(args[0])
	if err != nil {
		return fmt.Errorf("failed to get operation: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(op)
	}

	fmt.Printf("\nOperation: %s\n", op.ID)
	fmt.Println("─────────────────────────────────────────────────────────")
	fmt.Printf("Status: %s\n", op.Status)
	fmt.Printf("Type: %s on %s\n", op.OperationType, op.TargetEntity)
	fmt.Printf("Risk: %s\n", op.RiskLevel)
	fmt.Printf("Description: %s\n", op.Description)
	fmt.Printf("Request: %s\n", op.NaturalLanguageRequest)
	fmt.Printf("Conversation: %s\n", op.ConversationID)
	fmt.Printf("Created: %s\n", op.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Expires: %s\n", op.ExpiresAt.Format("2006-01-02 15:04:05"))
	if op.ExecutedAt != nil {
		fmt.Printf("Executed: %s\n", op.ExecutedAt.Format("2006-01-02 15:04:05"))
	}
	if op.IsRolledBack {
		fmt.Println("Rolled back: yes")
	}
	if op.ExecutionError != nil {
		fmt.Printf("Execution error: %s\n", *op.ExecutionError)
	}
	if len(op.ChangesSummary) > 0 {
		fmt.Println("Changes:")
		for _, change := range op.ChangesSummary {
			fmt.Printf("  %v: %v -> %v\n", change["field_label"], change["old_value"], change["new_value"])
		}
	}
	fmt.Printf("SQL: %s\n", op.GeneratedSQL)
	if op.RollbackSQL != nil {
		fmt.Printf("Rollback SQL: %s\n", *op.RollbackSQL)
	}
	fmt.Println()

	return nil
}

func confirmOperation(cmd *cobra.Command, args []string) error {
	apiClient, err := newAPIClient()
	if err != nil {
		return err
	}

	result, err := apiClient.ConfirmOperation(args[0])
	if err != nil {
		return fmt.Errorf("failed to confirm operation: %w", err)
	}
	return printSettlement(result)
}

func rejectOperation(cmd *cobra.Command, args []string) error {
	apiClient, err := newAPIClient()
	if err != nil {
		return err
	}

	result, err := apiClient.RejectOperation(args[0], rejectReason)
	if err != nil {
		return fmt.Errorf("failed to reject operation: %w", err)
	}
	return printSettlement(result)
}

func rollbackOperation(cmd *cobra.Command, args []string) error {
	apiClient, err := newAPIClient()
	if err != nil {
		return err
	}

	result, err := apiClient.RollbackOperation(args[0])
	if err != nil {
		return fmt.Errorf("failed to roll back operation: %w", err)
	}
	return printSettlement(result)
}

func operationStats(cmd *cobra.Command, args []string) error {
	apiClient, err := newAPIClient()
	if err != nil {
		return err
	}

	stats, err := apiClient.OperationStats()
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(stats)
	}

	if len(stats.Stats) == 0 {
		fmt.Println("No operations recorded")
		return nil
	}

	fmt.Println("\nOperations by status:")
	fmt.Println("─────────────────────────────────────────────────────────")
	for _, row := range stats.Stats {
		fmt.Printf("  %-12s %d\n", row.Status, row.Count)
	}
	fmt.Println()

	return nil
}

func printSettlement(result *client.SettlementResult) error {
	if outputFormat == "json" {
		return printJSON(result)
	}

	fmt.Printf("\n%s\n", result.Message)
	fmt.Printf("Operation: %s\n", result.OperationID)
	fmt.Printf("Status: %s\n", result.Status)
	if result.AffectedRecords > 0 {
		fmt.Printf("Affected records: %d\n", result.AffectedRecords)
	}
	if result.CanRollback {
		fmt.Println("This operation can still be rolled back.")
	}
	fmt.Println()

	if !result.Success {
		os.Exit(1)
	}
	return nil
}

func printJSON(payload interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
