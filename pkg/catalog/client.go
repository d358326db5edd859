package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/model"
)

// productIDDigits extracts the numeric catalog key from a product id,
// e.g. "P101" -> "101". The catalog is keyed numerically while the
// sales feed uses prefixed ids.
var productIDDigits = regexp.MustCompile(`\d+`)

// HTTPSource looks products up against the catalog's REST endpoint
// (GET {base}/products/{id}).
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPSource creates an HTTP catalog source with a per-call timeout.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Lookup implements Source.
func (s *HTTPSource) Lookup(ctx context.Context, productID string) (*model.ProductMetadata, error) {
	key := productIDDigits.FindString(productID)
	if key == "" {
		// No numeric component means the catalog cannot know it.
		return nil, fmt.Errorf("product id %q has no numeric key: %w", productID, ErrNotFound)
	}

	url := fmt.Sprintf("%s/products/%s", s.baseURL, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.classifyTransportError(productID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("product %s: catalog returned %d: %w",
			productID, resp.StatusCode, ErrServiceUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("product %s: unexpected status %d: %w",
			productID, resp.StatusCode, ErrServiceUnavailable)
	}

	var metadata model.ProductMetadata
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("product %s: decode catalog response: %w",
			productID, ErrServiceUnavailable)
	}

	return &metadata, nil
}

// classifyTransportError folds transport failures into the closed
// error set. Timeouts are distinguished from connection failures so
// the failure log reflects what actually happened.
func (s *HTTPSource) classifyTransportError(productID string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("product %s: %w", productID, ErrTimeout)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("product %s: %w", productID, ErrTimeout)
	}

	s.logger.Debug("Catalog transport error",
		zap.String("productID", productID),
		zap.Error(err))

	return fmt.Errorf("product %s: %v: %w", productID, err, ErrServiceUnavailable)
}
