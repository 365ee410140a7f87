package dexcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	appID            = "d89443d2-327c-4a6f-89e5-496bbb0317db"
	baseUrl          = "https://shareous1.dexcom.com/ShareWebServices/Services"
	loginEndpoint    = "General/LoginPublisherAccountByName"
	readingsEndpoint = "Publisher/ReadPublisherLatestGlucoseValues"

	// One day's worth.
	MinuteLimit = 1440
	CountLimit  = 288
)

type Client struct {
	client      *http.Client
	logger      *zap.Logger
	accountName string
	password    string
	sessionID   string
}

type Source interface {
	Readings(ctx context.Context, minutes, maxCount int) ([]*Reading, error)
}

type LoginRequest struct {
	AccountName   string `json:"accountName"`
	Password      string `json:"password"`
	ApplicationID string `json:"applicationId"`
}

type ShareReading struct {
	WT          string  `json:"WT"`
	SystemTime  string  `json:"ST"`
	DisplayTime string  `json:"DT"`
	Value       float64 `json:"Value"`
	Trend       string  `json:"Trend"`
}

// Reading is a Share reading with its timestamp decoded. Value stays in
// mg/dL.
type Reading struct {
	Time  time.Time
	Value float64
	Trend string
}

func New(accountName, password string, logger *zap.Logger) *Client {
	return &Client{
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
		accountName: accountName,
		password:    password,
	}
}

// Readings fetches readings from Dexcom's Share API, oldest first.
// Automatically creates a new session when it expires.
func (c *Client) Readings(ctx context.Context, minutes, maxCount int) ([]*Reading, error) {
	if c.sessionID != "" {
		trs, err := c.readings(ctx, minutes, maxCount)
		if err == nil {
			return trs, nil
		}
		c.logger.Debug("unable to fetch readings, restarting session", zap.Error(err))
	}
	if _, err := c.CreateSession(ctx); err != nil {
		return nil, err
	}
	return c.readings(ctx, minutes, maxCount)
}

func (c *Client) CreateSession(ctx context.Context) (string, error) {
	lreq := &LoginRequest{
		AccountName:   c.accountName,
		Password:      c.password,
		ApplicationID: appID,
	}

	b, err := json.Marshal(lreq)
	if err != nil {
		return "", err
	}

	c.logger.Debug("making login request for sessionID",
		zap.String("account", c.accountName),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseUrl+"/"+loginEndpoint, bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("unable to create session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unable to create session: status %d", resp.StatusCode)
	}
	c.sessionID = strings.Trim(string(body), "\"")

	c.logger.Debug("successfully obtained sessionID",
		zap.String("sessionID", c.sessionID),
	)

	return c.sessionID, nil
}

func (c *Client) readings(ctx context.Context, minutes, maxCount int) ([]*Reading, error) {
	if minutes > MinuteLimit || maxCount > CountLimit {
		return nil, fmt.Errorf("window too large: minutes %d, maxCount %d", minutes, maxCount)
	}

	params := url.Values{
		"sessionId": {c.sessionID},
		"minutes":   {strconv.Itoa(minutes)},
		"maxCount":  {strconv.Itoa(maxCount)},
	}

	c.logger.Debug("making fetch request",
		zap.Int("minutes", minutes),
		zap.Int("maximum count", maxCount),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseUrl+"/"+readingsEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch readings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to fetch readings: status %d", resp.StatusCode)
	}

	var srs []*ShareReading
	if err := json.NewDecoder(resp.Body).Decode(&srs); err != nil {
		return nil, fmt.Errorf("unable to decode readings: %w", err)
	}

	c.logger.Debug("received readings from share API",
		zap.Int("count", len(srs)),
	)

	rs := make([]*Reading, len(srs))
	for i, sr := range srs {
		r, err := transform(sr)
		if err != nil {
			return nil, err
		}
		rs[len(srs)-i-1] = r // Reverses list, so latest is last.
	}

	return rs, nil
}

// transform decodes WT, which looks like "Date(1651987807000)".
func transform(sr *ShareReading) (*Reading, error) {
	if !strings.HasPrefix(sr.WT, "Date(") {
		return nil, fmt.Errorf("unexpected timestamp: %q", sr.WT)
	}
	ms := strings.Trim(sr.WT[4:], "()")
	if i := strings.IndexAny(ms, "+-"); i > 0 {
		ms = ms[:i]
	}
	unix, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("unable to parse timestamp %q: %w", sr.WT, err)
	}

	return &Reading{
		Time:  time.UnixMilli(unix),
		Value: sr.Value,
		Trend: sr.Trend,
	}, nil
}
