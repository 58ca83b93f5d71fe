package anchor_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client submits audit proofs to the external anchoring collaborator. The
// core only emits the (contract hash, report hash, risk score) triple; where
// and how it is anchored is the collaborator's concern.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ProofRequest is the anchoring payload.
type ProofRequest struct {
	ContractHash string  `json:"contract_hash"`
	ReportHash   string  `json:"report_hash"`
	RiskScore    float64 `json:"risk_score"`
}

// ProofResponse carries the collaborator's anchor reference.
type ProofResponse struct {
	TxSignature string `json:"tx_signature,omitempty"`
	Status      string `json:"status"`
}

// NewClient creates a new anchor client.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// SubmitProof posts the proof triple.
func (c *Client) SubmitProof(ctx context.Context, contractHash, reportHash string, riskScore float64) (*ProofResponse, error) {
	reqBody := ProofRequest{
		ContractHash: contractHash,
		ReportHash:   reportHash,
		RiskScore:    riskScore,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/proofs", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("anchor service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ProofResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
