package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"buybackScope/internal/model"
)

// APIClient fetches the two snapshot endpoints. A server-side {ok:false}
// envelope is surfaced as an error carrying the server's message.
type APIClient struct {
	base string
	http *http.Client
}

// NewAPIClient creates a client for the given server base URL.
func NewAPIClient(base string) *APIClient {
	return &APIClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchRobot retrieves the robot telemetry snapshot.
func (c *APIClient) FetchRobot(ctx context.Context) (*model.RobotResponse, error) {
	var resp model.RobotResponse
	if err := c.get(ctx, "/robot", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchPrice retrieves the price snapshot for a token address.
func (c *APIClient) FetchPrice(ctx context.Context, token string) (*model.PriceResponse, error) {
	var resp model.PriceResponse
	path := "/price?token=" + url.QueryEscape(token)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response (status %d): %w", res.StatusCode, err)
	}
	if !envelope.OK {
		if envelope.Error == "" {
			return fmt.Errorf("server returned status %d", res.StatusCode)
		}
		return errors.New(envelope.Error)
	}

	return json.Unmarshal(body, out)
}
