/*-------------------------------------------------------------------------
 *
 * client.go
 *    HTTP client for the NeuronHR API
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/cli/pkg/client/client.go
 *
 *-------------------------------------------------------------------------
 */

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL    string
	token      string
	tenantID   string
	userID     string
	httpClient *http.Client
}

/* Operation is the wire shape of one pending operation */
type Operation struct {
	ID                     string                   `json:"ID"`
	OperationType          string                   `json:"OperationType"`
	TargetEntity           string                   `json:"TargetEntity"`
	Description            string                   `json:"Description"`
	NaturalLanguageRequest string                   `json:"NaturalLanguageRequest"`
	RiskLevel              string                   `json:"RiskLevel"`
	Status                 string                   `json:"Status"`
	ConversationID         string                   `json:"ConversationID"`
	GeneratedSQL           string                   `json:"GeneratedSQL"`
	RollbackSQL            *string                  `json:"RollbackSQL"`
	ChangesSummary         []map[string]interface{} `json:"ChangesSummary"`
	ExecutionError         *string                  `json:"ExecutionError"`
	ExpiresAt              time.Time                `json:"ExpiresAt"`
	CreatedAt              time.Time                `json:"CreatedAt"`
	ExecutedAt             *time.Time               `json:"ExecutedAt"`
	IsRolledBack           bool                     `json:"IsRolledBack"`
}

type OperationList struct {
	Total      int         `json:"total"`
	Operations []Operation `json:"operations"`
}

/* SettlementResult is the response of confirm, reject and rollback */
type SettlementResult struct {
	OperationID     string `json:"operation_id"`
	Status          string `json:"status"`
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	OperationType   string `json:"operation_type,omitempty"`
	TargetEntity    string `json:"target_entity,omitempty"`
	EntityName      string `json:"entity_name,omitempty"`
	AffectedRecords int    `json:"affected_records"`
	CanRollback     bool   `json:"can_rollback"`
}

type StatusCount struct {
	Status string `json:"Status"`
	Count  int64  `json:"Count"`
}

type Stats struct {
	Stats []StatusCount `json:"stats"`
}

type apiError struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

func NewClient(baseURL, token, tenantID, userID string) *Client {
	return &Client{
		baseURL:  baseURL,
		token:    token,
		tenantID: tenantID,
		userID:   userID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) ListOperations(status string, limit int) (*OperationList, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := "/api/v1/operations"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list OperationList
	if err := c.do(http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetOperation(operationID string) (*Operation, error) {
	var op Operation
	if err := c.do(http.MethodGet, "/api/v1/operations/"+operationID, nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (c *Client) ConfirmOperation(operationID string) (*SettlementResult, error) {
	return c.settle("/api/v1/operations/" + operationID + "/confirm", nil)
}

func (c *Client) RejectOperation(operationID, reason string) (*SettlementResult, error) {
	var body interface{}
	if reason != "" {
		body = map[string]string{"reason": reason}
	}
	return c.settle("/api/v1/operations/"+operationID+"/reject", body)
}

func (c *Client) RollbackOperation(operationID string) (*SettlementResult, error) {
	return c.settle("/api/v1/operations/" + operationID + "/rollback", nil)
}

func (c *Client) OperationStats() (*Stats, error) {
	var stats Stats
	if err := c.do(http.MethodGet, "/api/v1/operations/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) settle(path string, body interface{}) (*SettlementResult, error) {
	var result SettlementResult
	if err := c.do(http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Tenant-ID", c.tenantID)
	req.Header.Set("X-User-ID", c.userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	/* Settlement endpoints return 404 with a result body when the
	 * operation does not exist in the tenant scope */
	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		if resp.StatusCode != http.StatusNotFound || out == nil {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, string(data))
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
