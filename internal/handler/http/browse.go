package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Rajarajeshwaran-2003/eshop/internal/controller"
	"github.com/Rajarajeshwaran-2003/eshop/internal/filter"
	"github.com/Rajarajeshwaran-2003/eshop/internal/view"
	"github.com/Rajarajeshwaran-2003/eshop/pkg/httputil"

	apperrors "github.com/Rajarajeshwaran-2003/eshop/pkg/errors"
)

// BrowseHandler serves the product browsing surface: the server-rendered
// listing fragment and the JSON endpoint the in-page filter controller
// polls as filters change.
type BrowseHandler struct {
	catalog controller.Fetcher
	logger  *slog.Logger
}

// NewBrowseHandler creates a new browse HTTP handler.
func NewBrowseHandler(catalog controller.Fetcher, logger *slog.Logger) *BrowseHandler {
	return &BrowseHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListProducts handles GET /products. It renders the listing fragment for
// the query string's filter state, so a shared or reloaded URL shows the
// same filtered page the user was looking at.
func (h *BrowseHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	st := filter.FromQuery(r.URL.Query())

	list, err := h.catalog.FetchProducts(r.Context(), st)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "render product listing failed",
			slog.String("error", err.Error()),
			slog.String("query", r.URL.RawQuery),
		)
		httputil.WriteHTML(w, apperrors.HTTPStatus(err), view.ErrorState(errorMessage(err)).HTML())
		return
	}

	if len(list.Products) == 0 {
		httputil.WriteHTML(w, http.StatusOK, view.EmptyState().HTML())
		return
	}

	httputil.WriteHTML(w, http.StatusOK, view.ProductGrid(list, st).HTML())
}

// ListProductsJSON handles GET /api/products. This is the endpoint the
// filter controller fetches; it relays the filter state to the catalog
// service and returns the product page as JSON. The success body is the
// listing object itself, {products, pagination}, so the same client code
// can read this endpoint and the catalog service interchangeably; only
// errors use the envelope.
func (h *BrowseHandler) ListProductsJSON(w http.ResponseWriter, r *http.Request) {
	st := filter.FromQuery(r.URL.Query())

	list, err := h.catalog.FetchProducts(r.Context(), st)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, list)
}

// errorMessage picks the user-facing text for a failed listing render.
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Failed to load products. Please try again."
}
