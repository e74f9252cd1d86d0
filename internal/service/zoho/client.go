package zoho

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/finance1/summary-agent/backend/internal/apperr"
	"github.com/finance1/summary-agent/backend/internal/config"
	"github.com/finance1/summary-agent/backend/internal/model/crm"
)

// ErrRecordNotFound reports that the requested record does not exist in
// the CRM.
var ErrRecordNotFound = errors.New("record not found")

// Client fetches records from the Zoho CRM v3 REST API. Records are
// schemaless, so responses decode into order-preserving crm.Records.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a CRM client for the configured API domain.
func NewClient(cfg config.ZohoConfig, log *zap.Logger) *Client {
	return &Client{
		baseURL: fmt.Sprintf("https://%s/crm/v3", cfg.APIDomain),
		httpClient: &http.Client{
			Timeout: cfg.APITimeout,
		},
		log: log,
	}
}

// dataEnvelope is the `{"data":[...]}` wrapper Zoho puts around every
// record payload.
type dataEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

// Record fetches a single record by module and id. Returns
// ErrRecordNotFound when the CRM reports the record absent.
func (c *Client) Record(ctx context.Context, module, id, token string) (*crm.Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(module), url.PathEscape(id))

	body, status, err := c.get(ctx, endpoint, token)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusNoContent, http.StatusNotFound:
		return nil, ErrRecordNotFound
	default:
		return nil, apperr.Upstream(fmt.Sprintf("failed to fetch %s record", module), status, string(body))
	}

	var envelope dataEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", module, err)
	}
	if len(envelope.Data) == 0 {
		return nil, ErrRecordNotFound
	}

	return crm.ParseRecord(envelope.Data[0])
}

// RelatedRecords fetches up to limit records from a related list of the
// given record. An empty related list is not an error.
func (c *Client) RelatedRecords(ctx context.Context, module, id, related, token string, limit int) ([]*crm.Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s?per_page=%s",
		c.baseURL, url.PathEscape(module), url.PathEscape(id), url.PathEscape(related),
		strconv.Itoa(limit))

	body, status, err := c.get(ctx, endpoint, token)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, apperr.Upstream(fmt.Sprintf("failed to fetch related %s records", related), status, string(body))
	}

	var envelope dataEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode related %s records: %w", related, err)
	}

	records := make([]*crm.Record, 0, len(envelope.Data))
	for _, raw := range envelope.Data {
		rec, err := crm.ParseRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode related %s record: %w", related, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, endpoint, token string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, apperr.FromTransport("Zoho CRM request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}
