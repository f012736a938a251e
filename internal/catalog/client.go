// Package catalog provides the client for the external course-catalog APIs
// that each college exposes. The catalog is a live collaborator: no caching
// is performed and no partial result is ever returned.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/selimk/coursecompass/internal/app/models"
	"github.com/selimk/coursecompass/internal/pkg/apperrors"
	"github.com/selimk/coursecompass/internal/pkg/metrics"
)

// coursesPath is the well-known endpoint every college catalog exposes.
const coursesPath = "/website/ReadCourseDetails"

// Client fetches the available course list from a college's catalog API.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a catalog client with the given fetch timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchCourses performs a GET against {baseURL}/website/ReadCourseDetails and
// decodes the JSON course array. Any transport error, non-2xx status or
// malformed body is surfaced as apperrors.ErrCatalogFetch with the original
// failure attached; the submission handling treats that as a gateway error.
func (c *Client) FetchCourses(ctx context.Context, baseURL string) ([]models.Course, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+coursesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building catalog request: %v", apperrors.ErrCatalogFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CatalogFetchFailures.Inc()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCatalogFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.CatalogFetchFailures.Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: catalog API returned %s: %s", apperrors.ErrCatalogFetch, resp.Status, string(body))
	}

	var courses []models.Course
	if err := json.NewDecoder(resp.Body).Decode(&courses); err != nil {
		metrics.CatalogFetchFailures.Inc()
		return nil, fmt.Errorf("%w: decoding catalog response: %v", apperrors.ErrCatalogFetch, err)
	}

	return courses, nil
}
