// Package skin_cloud_model provides models for the cosmetics-analysis cloud
// API (HD skin scoring).
package skin_cloud_model

// SkinCloudAuthRequest carries the encoded client handshake payload. The
// cloud expects a base64 encoding of "client_id=<id>&timestamp=<unix_ms>".
type SkinCloudAuthRequest struct {
	ClientID string `json:"client_id"`
	IDToken  string `json:"id_token"`
}

// SkinCloudAuthResponse contains the bearer token issued for the handshake.
type SkinCloudAuthResponse struct {
	Result     AuthResult `json:"result"`
	StatusCode int        `json:"status_code"`
}

// AuthResult holds the issued token and its lifetime in seconds.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// SkinCloudAnalysisResponse holds per-region HD scores returned by the cloud.
type SkinCloudAnalysisResponse struct {
	Result     AnalysisResult `json:"result"`
	StatusCode int            `json:"status_code"`
}

// AnalysisResult groups the cloud HD scores. Scores are 0-100.
type AnalysisResult struct {
	Scores    map[string]RegionScore `json:"scores"`
	SkinAge   int                    `json:"skin_age"`
	RequestID string                 `json:"request_id"`
}

// RegionScore is one cloud HD parameter score.
type RegionScore struct {
	UIScore  float64 `json:"ui_score"`
	RawScore float64 `json:"raw_score"`
}
