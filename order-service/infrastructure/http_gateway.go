package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/commercekit/order-system/order-service/domain"
	"github.com/commercekit/order-system/shared/cache"
	"github.com/commercekit/order-system/shared/models"
	"github.com/pkg/errors"
)

const productCacheTTL = 5 * time.Minute

// HTTPValidationGateway validates users against the identity service and
// resolves product snapshots from the catalog service. Product lookups are
// cached; user existence checks always go to the source.
type HTTPValidationGateway struct {
	users          *ResilientClient
	catalog        *ResilientClient
	usersBaseURL   string
	catalogBaseURL string
	cache          cache.Cache
}

var _ domain.ValidationGateway = (*HTTPValidationGateway)(nil)

// NewHTTPValidationGateway creates a new HTTPValidationGateway
func NewHTTPValidationGateway(
	users *ResilientClient,
	catalog *ResilientClient,
	usersBaseURL string,
	catalogBaseURL string,
	productCache cache.Cache,
) *HTTPValidationGateway {
	return &HTTPValidationGateway{
		users:          users,
		catalog:        catalog,
		usersBaseURL:   usersBaseURL,
		catalogBaseURL: catalogBaseURL,
		cache:          productCache,
	}
}

// UserExists checks the identity service for the given user. A 404 means the
// user does not exist; anything else unexpected is a transport failure.
func (g *HTTPValidationGateway) UserExists(ctx context.Context, userID models.ID) error {
	url := fmt.Sprintf("%s/api/users/%s", g.usersBaseURL, userID.String())

	res, err := g.users.Get(ctx, url)
	if err != nil {
		return errors.Wrap(err, "identity service unreachable")
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return errors.Wrapf(domain.ErrUserNotFound, "user %s", userID)
	default:
		return errors.Errorf("identity service returned %s", res.Status)
	}
}

type catalogProductPayload struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Price models.Money `json:"price"`
}

type catalogEnvelope struct {
	Data catalogProductPayload `json:"data"`
}

// FetchProduct resolves the current name and price of a product from the
// catalog service, consulting the cache first.
func (g *HTTPValidationGateway) FetchProduct(ctx context.Context, productID string) (*domain.ProductSnapshot, error) {
	cacheKey := g.cache.Key("product", productID)

	if cached, err := g.cache.Get(ctx, cacheKey); err != nil {
		slog.WarnContext(ctx, "product cache read failed", "product_id", productID, "error", err)
	} else if cached != "" {
		var snapshot domain.ProductSnapshot
		if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
			return &snapshot, nil
		}
	}

	url := fmt.Sprintf("%s/api/products/%s", g.catalogBaseURL, productID)

	res, err := g.catalog.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "catalog service unreachable")
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &domain.ProductNotFoundError{ProductID: productID}
	default:
		return nil, errors.Errorf("catalog service returned %s", res.Status)
	}

	var envelope catalogEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, errors.Wrap(err, "failed to decode catalog response")
	}

	snapshot := &domain.ProductSnapshot{
		ProductID: productID,
		Name:      envelope.Data.Name,
		Price:     envelope.Data.Price,
	}

	if payload, err := json.Marshal(snapshot); err == nil {
		if err := g.cache.Set(ctx, cacheKey, payload, productCacheTTL); err != nil {
			slog.WarnContext(ctx, "product cache write failed", "product_id", productID, "error", err)
		}
	}

	return snapshot, nil
}
