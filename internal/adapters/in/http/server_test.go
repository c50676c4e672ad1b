package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errs.NewObjectNotFoundError("order", "abc"), http.StatusNotFound},
		{"duplicate", errs.NewDuplicateRequestError("order", "shop:1001"), http.StatusConflict},
		{"illegal transition", errs.NewIllegalTransitionError("order", "packed", "picking"), http.StatusConflict},
		{"scan mismatch", errs.NewScanContextMismatchError("SKU-1", "tote"), http.StatusUnprocessableEntity},
		{"required", errs.NewValueIsRequiredError("reference"), http.StatusBadRequest},
		{"invalid", errs.NewValueIsInvalidError("priority"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("qty", 0, 1, 10000), http.StatusBadRequest},
		{"unclassified", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestGetOrder_MalformedID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("orderId")
	ctx.SetParamValues("not-a-uuid")

	server := &Server{}
	require.NoError(t, server.GetOrder(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "orderId")
}

func TestIngestOrder_MalformedBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	server := &Server{}
	require.NoError(t, server.IngestOrder(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyScan_UnknownContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans",
		strings.NewReader(`{"code":"SKU-RED-M","context":"pallet","actorId":"gun-7"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	server := &Server{}
	require.NoError(t, server.ApplyScan(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "scan context")
}
