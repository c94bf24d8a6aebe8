package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecopulse/domain"
)

const maxErrorBodyBytes = 4 << 10

// Upload is an image picked in the dashboard form.
type Upload struct {
	Name string
	Data []byte
}

// StatusError is returned when the backend answers with anything but 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// Client calls the analysis endpoint of an EcoPulse backend.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/analyze",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Analyze sends one request to the backend. A file takes precedence over
// the URL, which is then not sent at all.
func (c *Client) Analyze(
	ctx context.Context,
	productURL string,
	file *Upload,
) (domain.AnalysisResult, error) {

	body, contentType, err := encodeRequest(productURL, file)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return domain.AnalysisResult{}, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var result domain.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode analysis response: %w", err)
	}

	return result, nil
}

func encodeRequest(productURL string, file *Upload) (io.Reader, string, error) {
	if file != nil {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(file.Data); err != nil {
			return nil, "", err
		}
		if err := mw.Close(); err != nil {
			return nil, "", err
		}
		return &buf, mw.FormDataContentType(), nil
	}

	jsonData, err := json.Marshal(struct {
		URL string `json:"url"`
	}{URL: productURL})
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(jsonData), "application/json", nil
}
