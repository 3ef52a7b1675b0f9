package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client delivers finished posts to the outbound publishing gateway, which
// holds the per-platform credentials and talks to the social networks.
type Client struct {
	client *resty.Client
}

func NewClient(gatewayURL string) *Client {
	return &Client{
		client: resty.New().SetBaseURL(gatewayURL).SetTimeout(30 * time.Second),
	}
}

type publishRequest struct {
	ContentId uint   `json:"content_id"`
	Platform  string `json:"platform"`
	Content   string `json:"content"`
}

func (c *Client) Publish(ctx context.Context, platform string, contentId uint, body string) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(publishRequest{ContentId: contentId, Platform: platform, Content: body}).
		Post("/publish/" + platform)

	if err != nil {
		slog.Error("unable to reach publishing gateway", "platform", platform, "error", err)
		return fmt.Errorf("publishing gateway unreachable: %w", err)
	}

	if !res.IsSuccess() {
		slog.Error("publishing gateway returned error", "platform", platform, "status_code", res.StatusCode(), "body", res.String())
		return fmt.Errorf("publishing gateway returned status %d", res.StatusCode())
	}

	return nil
}
