package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/huracan-ai/huracan/internal/config"
	"github.com/huracan-ai/huracan/internal/domain"
)

// Analyzer defines the interface for the image-analysis backend
type Analyzer interface {
	Analyze(ctx context.Context, imageURL string) (domain.ImageAnalysis, error)
}

const apiVersion = "2023-10-01"

// Client implements Analyzer against the Azure Image Analysis REST API
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient creates a new vision client
func NewClient(cfg config.VisionConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// IsConfigured checks whether the client has credentials
func (c *Client) IsConfigured() bool {
	return c.endpoint != "" && c.apiKey != ""
}

type analyzeRequest struct {
	URL string `json:"url"`
}

// analyzeResponse mirrors the feature-result shape of the API. Every field
// is optional; absent features normalize to empty lists.
type analyzeResponse struct {
	CaptionResult *struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"captionResult"`
	DenseCaptionsResult *struct {
		Values []struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"values"`
	} `json:"denseCaptionsResult"`
	ObjectsResult *struct {
		Values []struct {
			BoundingBox *struct {
				X int `json:"x"`
				Y int `json:"y"`
				W int `json:"w"`
				H int `json:"h"`
			} `json:"boundingBox"`
			Tags []struct {
				Name       string  `json:"name"`
				Confidence float64 `json:"confidence"`
			} `json:"tags"`
		} `json:"values"`
	} `json:"objectsResult"`
	TagsResult *struct {
		Values []struct {
			Name       string  `json:"name"`
			Confidence float64 `json:"confidence"`
		} `json:"values"`
	} `json:"tagsResult"`
}

// Analyze requests caption, dense-caption, object, tag, and text-read
// features for one image URL and normalizes the response
func (c *Client) Analyze(ctx context.Context, imageURL string) (domain.ImageAnalysis, error) {
	analysis := emptyAnalysis()

	if !c.IsConfigured() {
		return analysis, fmt.Errorf("vision client is not configured (missing endpoint or key)")
	}

	body, err := json.Marshal(analyzeRequest{URL: imageURL})
	if err != nil {
		return analysis, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/computervision/imageanalysis:analyze?api-version=%s&features=caption,denseCaptions,objects,tags,read",
		c.endpoint, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return analysis, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return analysis, fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return analysis, fmt.Errorf("vision API returned status %d", resp.StatusCode)
	}

	var raw analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return analysis, fmt.Errorf("failed to decode response: %w", err)
	}

	return normalize(raw), nil
}

func emptyAnalysis() domain.ImageAnalysis {
	return domain.ImageAnalysis{
		Objects:  []domain.DetectedObject{},
		Tags:     []domain.Tag{},
		Captions: []domain.Caption{},
	}
}

// normalize flattens the heterogeneous feature results into uniform lists.
// Objects keep only their top tag; the single top caption precedes the
// dense captions.
func normalize(raw analyzeResponse) domain.ImageAnalysis {
	analysis := emptyAnalysis()

	if raw.ObjectsResult != nil {
		for _, obj := range raw.ObjectsResult.Values {
			detected := domain.DetectedObject{Object: "unknown"}
			if len(obj.Tags) > 0 {
				detected.Object = obj.Tags[0].Name
				detected.Confidence = obj.Tags[0].Confidence
			}
			if obj.BoundingBox != nil {
				detected.Rectangle = domain.Rectangle{
					X: obj.BoundingBox.X,
					Y: obj.BoundingBox.Y,
					W: obj.BoundingBox.W,
					H: obj.BoundingBox.H,
				}
			}
			analysis.Objects = append(analysis.Objects, detected)
		}
	}

	if raw.TagsResult != nil {
		for _, tag := range raw.TagsResult.Values {
			name := tag.Name
			if name == "" {
				name = "unknown"
			}
			analysis.Tags = append(analysis.Tags, domain.Tag{
				Name:       name,
				Confidence: tag.Confidence,
			})
		}
	}

	if raw.CaptionResult != nil {
		analysis.Captions = append(analysis.Captions, domain.Caption{
			Text:       raw.CaptionResult.Text,
			Confidence: raw.CaptionResult.Confidence,
		})
	}

	if raw.DenseCaptionsResult != nil {
		for _, caption := range raw.DenseCaptionsResult.Values {
			analysis.Captions = append(analysis.Captions, domain.Caption{
				Text:       caption.Text,
				Confidence: caption.Confidence,
			})
		}
	}

	return analysis
}
