package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"biliran-rental-backend/internal/logger"
)

// httpTrigger asks the server to run a job via POST /api/v1/admin/jobs/{name}.
type httpTrigger struct {
	baseURL string
	token   func() (string, error)
	client  *http.Client
}

func newTrigger(baseURL string, token func() (string, error)) *httpTrigger {
	return &httpTrigger{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

func (t *httpTrigger) Run(name string) error {
	token, err := t.token()
	if err != nil {
		return fmt.Errorf("failed to sign job token: %w", err)
	}

	endpoint := t.baseURL + "/api/v1/admin/jobs/" + url.PathEscape(name)
	req, err := http.NewRequest(http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build job request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	logger.ExternalServiceCall("booking-server", "RunJob", "job", name, "url", endpoint)
	resp, err := t.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult("booking-server", "RunJob", err, "job", name)
		return fmt.Errorf("job request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		logger.ExternalServiceResult("booking-server", "RunJob", err, "job", name)
		return err
	}
	logger.ExternalServiceResult("booking-server", "RunJob", nil, "job", name, "status", resp.StatusCode)
	return nil
}
