package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tucancha/internal/db"
)

// UserClient resolves users over HTTP against the users service.
type UserClient struct {
	baseURL string
	client  *http.Client
}

func NewUserClient(baseURL string) *UserClient {
	return &UserClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *UserClient) GetUser(ctx context.Context, id int64) (*db.User, error) {
	url := fmt.Sprintf("%s/users/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling users service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("users service returned %d for user %d", resp.StatusCode, id)
	}

	var user db.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("error decoding user %d: %w", id, err)
	}
	return &user, nil
}
