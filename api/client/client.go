package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aouyang1/signage/api/models"
	"github.com/aouyang1/signage/store"
)

const endpointPrefix = "/api/endpoint"

// APIError is a non-200 answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

type QueueClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewQueueClient(baseURL, token string) *QueueClient {
	return &QueueClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// RemoveSlide removes a slide from a queue. Removing a slide from its last
// queue is refused with a 403 APIError.
func (qc *QueueClient) RemoveSlide(ctx context.Context, queueName, slideID string) error {
	reqBody := models.QueueSlideRequest{QueueName: queueName, SlideID: slideID}
	return qc.do(ctx, http.MethodPost, "/queue/queue_remove_slide", reqBody, nil)
}

// AddSlide adds a slide to a queue at position, or at the end when position is nil.
func (qc *QueueClient) AddSlide(ctx context.Context, queueName, slideID string, position *int) (*store.Queue, error) {
	reqBody := models.AddSlideRequest{QueueName: queueName, SlideID: slideID, Position: position}
	var queue store.Queue
	if err := qc.do(ctx, http.MethodPost, "/queue/queue_add_slide", reqBody, &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

func (qc *QueueClient) GetQueue(ctx context.Context, name string) (*store.Queue, error) {
	var queue store.Queue
	path := "/queue/queue_get?name=" + url.QueryEscape(name)
	if err := qc.do(ctx, http.MethodGet, path, nil, &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

func (qc *QueueClient) ListQueues(ctx context.Context) ([]store.Queue, error) {
	var listResp models.QueueListResponse
	if err := qc.do(ctx, http.MethodGet, "/queue/queue_list", nil, &listResp); err != nil {
		return nil, err
	}
	return listResp.Queues, nil
}

func (qc *QueueClient) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, qc.baseURL+endpointPrefix+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if qc.token != "" {
		req.Header.Set("Authorization", "Bearer "+qc.token)
	}

	resp, err := qc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(data)}
	}

	if respBody == nil {
		return nil
	}
	if err := json.Unmarshal(data, respBody); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
