// Package face_cloud_client is a thin HTTP client for the Face Cloud
// landmark detection API.
package face_cloud_client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const (
	faceCloudApiUrlEnvName   = "FACE_CLOUD__API_URL"
	faceCloudUserEnvName     = "FACE_CLOUD__API_USER"
	faceCloudPasswordEnvName = "FACE_CLOUD__API_PASS"

	requestTimeout = 10 * time.Second
	maxAttempts    = 3
)

// DetectFaces sends a request to the Face Cloud API to detect faces in a
// JPEG image.
func DetectFaces(ctx context.Context, imageData []byte, token string) (b []byte, err error) {

	url := fmt.Sprintf("%s/detect?landmarks=true", os.Getenv(faceCloudApiUrlEnvName))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(imageData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "image/jpeg")
	req.Header.Set("Authorization", "Bearer "+token)
	req.ContentLength = int64(len(imageData))

	return reqUrl(req, imageData)
}

// Login sends a request to the Face Cloud API to obtain a JWT token.
func Login(ctx context.Context, body []byte) (b []byte, err error) {

	url := fmt.Sprintf("%s/login", os.Getenv(faceCloudApiUrlEnvName))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		log.Println(err)
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return reqUrl(req, body)
}

// reqUrl makes an HTTP request with a fixed retry count and returns the
// response body or an error.
func reqUrl(req *http.Request, body []byte) (data []byte, err error) {

	client := &http.Client{Timeout: requestTimeout}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		data, err = doRequest(client, req)
		if err == nil {
			return data, nil
		}

		log.Printf("face cloud request failed (attempt %d/%d): %v", attempt, maxAttempts, err)

		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}
	}

	return nil, err
}

func doRequest(client *http.Client, req *http.Request) (data []byte, err error) {

	resp, err := client.Do(req)
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
