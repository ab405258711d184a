// Package detect talks to the chip detection service.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"
)

// maxResponseSize bounds the detection reply read into memory.
const maxResponseSize = 1 << 20

var ErrNotImage = errors.New("upload is not an image")

type predictResponse struct {
	CountsByColor map[string]int64 `json:"counts_by_color"`
}

// Client posts images to the detection endpoint as multipart field "file".
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Detect returns counts for the active colors found on image.
func (c *Client) Detect(ctx context.Context, image []byte, filename string, active []models.Color) (map[models.Color]int64, error) {
	mtype := mimetype.Detect(image)
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") && !mtype.Is("image/webp") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mtype.String())
	}
	if filename == "" {
		filename = "chip-image" + mtype.Extension()
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("build detection request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call detection service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection service returned %d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode detection response: %w", err)
	}

	detected := onlyActive(TranslateLabels(pr.CountsByColor), active)
	log.WithFields(log.Fields{"labels": len(pr.CountsByColor), "kept": len(detected)}).Debug("chips detected")
	return detected, nil
}

func onlyActive(counts map[models.Color]int64, active []models.Color) map[models.Color]int64 {
	out := make(map[models.Color]int64, len(active))
	for _, c := range active {
		if n, ok := counts[c]; ok {
			out[c] = n
		}
	}
	return out
}
