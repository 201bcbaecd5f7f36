package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/logger"
)

// Request is the body posted to the content service
type Request struct {
	Kind        string `json:"kind"`
	Name        string `json:"name,omitempty"`
	Day         int    `json:"day,omitempty"`
	FastedToday bool   `json:"fastedToday,omitempty"`
	Age         int    `json:"age,omitempty"`
}

const (
	KindEncouragement = "encouragement"
	KindGoodDeeds     = "goodDeeds"
)

type encouragementResponse struct {
	Message string `json:"message"`
}

// Remote asks a content service for buddy content
type Remote struct {
	endpoint string
	client   *http.Client
}

// NewRemote returns a provider posting to endpoint. A zero timeout uses the default.
func NewRemote(endpoint string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = constants.DefaultContentTimeout
	}
	return &Remote{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (r *Remote) Encouragement(ctx context.Context, name string, day int, fastedToday bool) string {
	var resp encouragementResponse
	err := r.post(ctx, Request{Kind: KindEncouragement, Name: name, Day: day, FastedToday: fastedToday}, &resp)
	if err != nil {
		logger.Warn("Content service failed, using fallback", "kind", KindEncouragement, "error", err)
		return FallbackEncouragement
	}
	if strings.TrimSpace(resp.Message) == "" {
		return FallbackEncouragement
	}
	return resp.Message
}

func (r *Remote) GoodDeeds(ctx context.Context, age int) []Suggestion {
	var deeds []Suggestion
	if err := r.post(ctx, Request{Kind: KindGoodDeeds, Age: age}, &deeds); err != nil {
		logger.Warn("Content service failed, using fallback", "kind", KindGoodDeeds, "error", err)
		return fallbackDeeds()
	}
	if len(deeds) == 0 {
		return fallbackDeeds()
	}
	return deeds
}

func (r *Remote) post(ctx context.Context, payload Request, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("content service returned status: %s", res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
