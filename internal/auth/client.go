package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/validation"
)

const ReasonLoginFailed = "Login failed. Please try again."

// Client calls a remote login endpoint on behalf of the CLI.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login validates the record locally, then posts it. Every failure past
// validation comes back as an *llm.RemoteError.
func (c *Client) Login(ctx context.Context, in validation.LoginInput) (*models.AuthResponse, error) {
	in, err := validation.Login(in)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(models.LoginRequest{Name: in.Name, Age: in.Age, Education: in.Education})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, llm.Classify(err, ReasonLoginFailed)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&payload)
		msg := payload.Message
		if msg == "" {
			msg = payload.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status code %d", res.StatusCode)
		}
		return nil, llm.Classify(&llm.StatusError{StatusCode: res.StatusCode, Message: msg}, ReasonLoginFailed)
	}

	var out models.AuthResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, llm.Classify(fmt.Errorf("decode login response: %w", err), ReasonLoginFailed)
	}
	return &out, nil
}
