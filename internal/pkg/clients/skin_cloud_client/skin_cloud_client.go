// Package skin_cloud_client is an HTTP client for the cosmetics-analysis
// cloud API. The cloud uses a bespoke handshake: the client id and a
// timestamp are joined into a query-style payload, base64 encoded and
// exchanged for a short-lived bearer token.
package skin_cloud_client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"face-analysis/internal/pkg/model/skin_cloud_model"
	"face-analysis/tools"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"sync"
	"time"
)

const (
	skinCloudApiUrlEnvName   = "SKIN_CLOUD__API_URL"
	skinCloudClientIdEnvName = "SKIN_CLOUD__CLIENT_ID"

	requestTimeout = 10 * time.Second

	// tokenSlack is subtracted from the advertised token lifetime so a
	// token is refreshed before the cloud rejects it.
	tokenSlack = 30 * time.Second
)

// Client talks to the cosmetics-analysis cloud. It caches the bearer token
// until shortly before expiry and is safe for concurrent use.
type Client struct {
	apiUrl   string
	clientId string
	http     *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// New builds a Client from environment configuration.
func New() *Client {
	tools.CheckEnvs(skinCloudApiUrlEnvName, skinCloudClientIdEnvName)

	return &Client{
		apiUrl:   os.Getenv(skinCloudApiUrlEnvName),
		clientId: os.Getenv(skinCloudClientIdEnvName),
		http:     &http.Client{Timeout: requestTimeout},
	}
}

// Token returns a valid bearer token, performing the handshake when the
// cached token is missing or about to expire.
func (c *Client) Token(ctx context.Context) (token string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	idToken := encodeHandshake(c.clientId, time.Now())

	reqBody, err := json.Marshal(skin_cloud_model.SkinCloudAuthRequest{
		ClientID: c.clientId,
		IDToken:  idToken,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiUrl+"/auth", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("skin cloud handshake failed: %w", err)
	}

	var resp skin_cloud_model.SkinCloudAuthResponse
	if err = json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	if resp.Result.AccessToken == "" {
		return "", errors.New("skin cloud handshake returned empty token")
	}

	c.token = resp.Result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(resp.Result.ExpiresIn)*time.Second - tokenSlack)

	return c.token, nil
}

// AnalyzeSkin uploads a JPEG image and returns the cloud HD skin scores.
func (c *Client) AnalyzeSkin(ctx context.Context, imageData []byte) (result *skin_cloud_model.SkinCloudAnalysisResponse, err error) {

	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", "scan.jpg")
	if err != nil {
		return nil, err
	}
	if _, err = part.Write(imageData); err != nil {
		return nil, err
	}
	if err = writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiUrl+"/skin-analysis/hd", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	result = &skin_cloud_model.SkinCloudAnalysisResponse{}
	if err = json.Unmarshal(data, result); err != nil {
		return nil, err
	}

	return result, nil
}

// Invalidate drops the cached token so the next call re-authenticates.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

func (c *Client) do(req *http.Request) (data []byte, err error) {

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 && resp.StatusCode <= 599 {
		return nil, errors.New("server returned error with status: " + resp.Status)
	}

	return data, nil
}

// encodeHandshake builds the encoded payload the cloud expects.
func encodeHandshake(clientId string, now time.Time) string {
	payload := fmt.Sprintf("client_id=%s&timestamp=%d", clientId, now.UnixMilli())
	return base64.StdEncoding.EncodeToString([]byte(payload))
}
