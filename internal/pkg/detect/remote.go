package detect

import (
	"context"
	"encoding/json"
	"face-analysis/internal/pkg/clients/face_cloud_client"
	"face-analysis/internal/pkg/model/analysis_model"
	"face-analysis/internal/pkg/model/face_cloud_model"
	"fmt"
	"math"
	"os"
	"sync"
)

const (
	faceCloudApiUrlEnvName   = "FACE_CLOUD__API_URL"
	faceCloudUserEnvName     = "FACE_CLOUD__API_USER"
	faceCloudPasswordEnvName = "FACE_CLOUD__API_PASS"
)

// Remote is the Face Cloud detection provider. It logs in once for a JWT,
// caches it and re-authenticates after a failed detect call.
type Remote struct {
	mu    sync.Mutex
	token string
}

// NewRemote returns the Face Cloud provider.
func NewRemote() *Remote {
	return &Remote{}
}

// Name implements Detector.
func (r *Remote) Name() string {
	return "face_cloud"
}

// Probe checks credentials are configured and performs a login.
func (r *Remote) Probe(ctx context.Context) error {
	for _, env := range []string{faceCloudApiUrlEnvName, faceCloudUserEnvName, faceCloudPasswordEnvName} {
		if os.Getenv(env) == "" {
			return fmt.Errorf("env variable not set: %s", env)
		}
	}

	_, err := r.login(ctx)
	return err
}

// Detect implements Detector.
func (r *Remote) Detect(ctx context.Context, frame *Frame) (*analysis_model.FaceDetection, error) {

	imageData, err := frame.JPEG()
	if err != nil {
		return nil, err
	}

	token, err := r.cachedToken(ctx)
	if err != nil {
		return nil, err
	}

	data, err := face_cloud_client.DetectFaces(ctx, imageData, token)
	if err != nil {
		// Token may have expired; drop it so the next call logs in again.
		r.mu.Lock()
		r.token = ""
		r.mu.Unlock()
		return nil, err
	}

	var response face_cloud_model.FaceCloudDetectResponse
	if err = json.Unmarshal(data, &response); err != nil {
		return nil, err
	}

	return mapCloudResponse(&response), nil
}

func (r *Remote) cachedToken(ctx context.Context) (string, error) {
	r.mu.Lock()
	token := r.token
	r.mu.Unlock()

	if token != "" {
		return token, nil
	}
	return r.login(ctx)
}

func (r *Remote) login(ctx context.Context) (token string, err error) {

	reqBody, err := json.Marshal(face_cloud_model.FaceCloudLoginRequest{
		Email:    os.Getenv(faceCloudUserEnvName),
		Password: os.Getenv(faceCloudPasswordEnvName),
	})
	if err != nil {
		return "", err
	}

	data, err := face_cloud_client.Login(ctx, reqBody)
	if err != nil {
		return "", err
	}

	var response face_cloud_model.FaceCloudLoginResponse
	if err = json.Unmarshal(data, &response); err != nil {
		return "", err
	}
	if response.Data.AccessToken == "" {
		return "", fmt.Errorf("face cloud login returned empty token")
	}

	r.mu.Lock()
	r.token = response.Data.AccessToken
	r.mu.Unlock()

	return response.Data.AccessToken, nil
}

// mapCloudResponse converts the cloud DTO into the unified result shape.
// The most prominent face contributes the landmarks and confidence.
func mapCloudResponse(response *face_cloud_model.FaceCloudDetectResponse) *analysis_model.FaceDetection {
	if len(response.Data) == 0 {
		return analysis_model.NoFace(detectionMessage(0, 0))
	}

	boxes := make([]analysis_model.BoundingBox, 0, len(response.Data))
	best := &response.Data[0]

	for i := range response.Data {
		face := &response.Data[i]
		boxes = append(boxes, analysis_model.BoundingBox{
			X:      float64(face.Bbox.X),
			Y:      float64(face.Bbox.Y),
			Width:  float64(face.Bbox.Width),
			Height: float64(face.Bbox.Height),
		})
		if face.Bbox.Width*face.Bbox.Height > best.Bbox.Width*best.Bbox.Height {
			best = face
		}
	}

	landmarks := parseCloudLandmarks(best.Landmarks)
	if landmarks.Count() == 0 {
		landmarks = SynthesizeLandmarks(analysis_model.BoundingBox{
			X:      float64(best.Bbox.X),
			Y:      float64(best.Bbox.Y),
			Width:  float64(best.Bbox.Width),
			Height: float64(best.Bbox.Height),
		})
	}

	confidence := math.Min(1.0, math.Max(0, best.Score))

	return &analysis_model.FaceDetection{
		HasFace:       true,
		FaceCount:     len(response.Data),
		Confidence:    confidence,
		BoundingBoxes: boxes,
		Landmarks:     landmarks,
		Message:       detectionMessage(len(response.Data), confidence),
	}
}
