package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buybackScope/internal/model"
)

type stubBuilder struct {
	robot    *model.RobotResponse
	robotErr error
	price    *model.PriceResponse
	priceErr error

	priceToken common.Address
}

func (s *stubBuilder) BuildRobot(context.Context) (*model.RobotResponse, error) {
	return s.robot, s.robotErr
}

func (s *stubBuilder) BuildPrice(_ context.Context, token common.Address) (*model.PriceResponse, error) {
	s.priceToken = token
	return s.price, s.priceErr
}

func serve(t *testing.T, builder SnapshotBuilder, defaultToken common.Address, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewHandler(builder, defaultToken, nil), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetPriceSuccess(t *testing.T) {
	builder := &stubBuilder{price: &model.PriceResponse{OK: true, ServerTimeMs: 123}}
	rec := serve(t, builder, common.Address{}, "/price?token=0x00000000000000000000000000000000000000bb")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, common.HexToAddress("0xbb"), builder.priceToken)

	var resp model.PriceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
}

func TestGetPriceStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"pair not found", model.ErrPairNotFound, http.StatusNotFound},
		{"no liquidity", model.ErrNoLiquidity, http.StatusUnprocessableEntity},
		{"bad oracle answer", model.ErrInvalidOracleAnswer, http.StatusBadGateway},
		{"orientation mismatch", model.ErrOrientationMismatch, http.StatusInternalServerError},
		{"read failure", &model.ReadError{Op: "pair reserves", Err: errors.New("revert")}, http.StatusInternalServerError},
		{"connection failure", &model.ConnectionError{Endpoint: "http://node", Err: errors.New("refused")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			builder := &stubBuilder{priceErr: tc.err}
			rec := serve(t, builder, common.Address{}, "/price?token=0x00000000000000000000000000000000000000bb")

			assert.Equal(t, tc.want, rec.Code)
			resp := decodeError(t, rec)
			assert.False(t, resp.OK)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGetPriceWrappedErrorStillMapped(t *testing.T) {
	wrapped := &model.ReadError{Op: "pair reserves", Err: model.ErrNoLiquidity}
	rec := serve(t, &stubBuilder{priceErr: wrapped}, common.Address{}, "/price?token=0x00000000000000000000000000000000000000bb")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetPriceMissingTokenWithoutDefault(t *testing.T) {
	// Treated as a deployment problem, not a client error.
	rec := serve(t, &stubBuilder{}, common.Address{}, "/price")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Contains(t, resp.Error, "token")
}

func TestGetPriceFallsBackToDefaultToken(t *testing.T) {
	defaultToken := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	builder := &stubBuilder{price: &model.PriceResponse{OK: true}}
	rec := serve(t, builder, defaultToken, "/price")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultToken, builder.priceToken)
}

func TestGetPriceRejectsMalformedAddress(t *testing.T) {
	rec := serve(t, &stubBuilder{}, common.Address{}, "/price?token=not-an-address")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetRobot(t *testing.T) {
	builder := &stubBuilder{robot: &model.RobotResponse{OK: true, ChainID: 56}}
	rec := serve(t, builder, common.Address{}, "/robot")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp model.RobotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, uint64(56), resp.ChainID)
}

func TestGetRobotFailure(t *testing.T) {
	builder := &stubBuilder{robotErr: &model.ReadError{Op: "robot telemetry", Err: errors.New("revert")}}
	rec := serve(t, builder, common.Address{}, "/robot")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.False(t, resp.OK)
}

func TestGetHealth(t *testing.T) {
	rec := serve(t, &stubBuilder{}, common.Address{}, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}
