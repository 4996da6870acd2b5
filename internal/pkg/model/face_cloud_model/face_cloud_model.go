// Package face_cloud_model provides models for interacting with the Face Cloud
// landmark detection service.
package face_cloud_model

// FaceCloudLoginRequest represents a login request for the Face Cloud API.
type FaceCloudLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FaceCloudLoginResponse contains authentication data from the Face Cloud API.
type FaceCloudLoginResponse struct {
	Data       Data `json:"data"`
	StatusCode int  `json:"status_code"`
}

// Data contains authentication tokens.
type Data struct {
	AccessToken string `json:"access_token"`
}

// FaceCloudDetectResponse holds the response from a face detection request.
type FaceCloudDetectResponse struct {
	Data       []FaceData `json:"data"`
	Rotation   int        `json:"rotation"`
	StatusCode int        `json:"status_code"`
}

// FaceData contains detailed information about one detected face.
type FaceData struct {
	Bbox      Bbox       `json:"bbox"`
	Landmarks []Landmark `json:"landmarks"`
	Quality   Quality    `json:"quality"`
	Score     float64    `json:"score"`
}

// Bbox represents the bounding box of a detected face.
type Bbox struct {
	Height int `json:"height"`
	Width  int `json:"width"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// Landmark represents a facial landmark coordinate. Class is the region tag
// documented by the Face Cloud API ("left_eye", "nose", ...).
type Landmark struct {
	Class string `json:"class"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// Quality represents image quality metrics reported for a detected face.
type Quality struct {
	Blurriness    int `json:"blurriness"`
	Overexposure  int `json:"overexposure"`
	Underexposure int `json:"underexposure"`
}
