package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agro-market-api/internal/common"
	"agro-market-api/internal/entity"
	"agro-market-api/internal/service"
	"agro-market-api/pkg/jwtauth"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dealServiceStub struct {
	resolveErr error

	lastDealId  string
	lastVerdict string
	lastAdminId string
	lastReason  string
	lastSubmit  *entity.SubmitDealInput
}

func (s *dealServiceStub) SubmitDeal(_ context.Context, input *entity.SubmitDealInput) (*entity.DealOutputModel, error) {
	s.lastSubmit = input

	return &entity.DealOutputModel{Id: uuid.NewString(), EntityKind: input.Kind, EntityId: input.EntityId, Verdict: common.Pending}, nil
}

func (s *dealServiceStub) ResolveDeal(_ context.Context, dealId string, verdict string, adminId string, reason string) (*entity.DealOutputModel, error) {
	s.lastDealId = dealId
	s.lastVerdict = verdict
	s.lastAdminId = adminId
	s.lastReason = reason
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}

	return &entity.DealOutputModel{Id: dealId, Verdict: verdict}, nil
}

func (s *dealServiceStub) DeleteDeal(_ context.Context, dealId string, adminId string, reason string) error {
	s.lastDealId = dealId
	s.lastAdminId = adminId
	s.lastReason = reason

	return nil
}

func (s *dealServiceStub) GetPendingDeals(_ context.Context, kind string, pg *entity.PaginationInput) ([]entity.DealOutputModel, error) {
	return []entity.DealOutputModel{}, nil
}

func newDealTestServer(stub *dealServiceStub, tokens *jwtauth.Manager) *echo.Echo {
	e := echo.New()
	auth := newAuthMiddleware(tokens)
	api := e.Group("/api")
	secured := api.Group("", auth.Authenticate)
	admin := api.Group("", auth.Authenticate, auth.RequireAdmin)
	newDealRoutesHandler(secured, admin, &service.Services{Deal: stub}, validator.New(validator.WithRequiredStructEnabled()))

	return e
}

func doJSON(e *echo.Echo, method string, path string, body string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestResolveDealEndpoint(t *testing.T) {
	tokens := jwtauth.New("test-secret")
	adminId := uuid.NewString()
	adminToken, err := tokens.Generate(adminId, common.RoleAdmin, time.Hour)
	require.NoError(t, err)
	farmerToken, err := tokens.Generate(uuid.NewString(), common.RoleFarmer, time.Hour)
	require.NoError(t, err)

	dealId := uuid.NewString()

	t.Run("requires a bearer token", func(t *testing.T) {
		e := newDealTestServer(&dealServiceStub{}, tokens)
		rec := doJSON(e, http.MethodPatch, "/api/deal/farmerReq", `{"ID":"`+dealId+`","verdict":"Accepted"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("requires an admin principal", func(t *testing.T) {
		e := newDealTestServer(&dealServiceStub{}, tokens)
		rec := doJSON(e, http.MethodPatch, "/api/deal/farmerReq", `{"ID":"`+dealId+`","verdict":"Accepted"}`, farmerToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("passes reason and admin id through", func(t *testing.T) {
		stub := &dealServiceStub{}
		e := newDealTestServer(stub, tokens)

		rec := doJSON(e, http.MethodPatch, "/api/deal/farmerReq", `{"ID":"`+dealId+`","verdict":"Rejected","action_reason":"incomplete paperwork"}`, adminToken)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, dealId, stub.lastDealId)
		assert.Equal(t, common.Rejected, stub.lastVerdict)
		assert.Equal(t, adminId, stub.lastAdminId)
		assert.Equal(t, "incomplete paperwork", stub.lastReason)
	})

	t.Run("accepts the legacy reason spelling", func(t *testing.T) {
		stub := &dealServiceStub{}
		e := newDealTestServer(stub, tokens)

		rec := doJSON(e, http.MethodPatch, "/api/deal/farmerReq", `{"ID":"`+dealId+`","verdict":"Rejected","action_reasson":"old client"}`, adminToken)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "old client", stub.lastReason)
	})

	t.Run("rejects verdicts outside the state set before the service", func(t *testing.T) {
		stub := &dealServiceStub{}
		e := newDealTestServer(stub, tokens)

		rec := doJSON(e, http.MethodPatch, "/api/deal/farmerReq", `{"ID":"`+dealId+`","verdict":"Pending"}`, adminToken)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, stub.lastDealId)
	})

	t.Run("maps terminal verdicts to conflict", func(t *testing.T) {
		stub := &dealServiceStub{resolveErr: service.ErrDealAlreadyResolved}
		e := newDealTestServer(stub, tokens)

		rec := doJSON(e, http.MethodPatch, "/api/deal/farmerReq", `{"ID":"`+dealId+`","verdict":"Accepted"}`, adminToken)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("maps lock exhaustion to service unavailable", func(t *testing.T) {
		stub := &dealServiceStub{resolveErr: service.ErrBusy}
		e := newDealTestServer(stub, tokens)

		rec := doJSON(e, http.MethodPatch, "/api/deal/farmerReq", `{"ID":"`+dealId+`","verdict":"Accepted"}`, adminToken)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestSubmitDealEndpoint(t *testing.T) {
	tokens := jwtauth.New("test-secret")
	farmerId := uuid.NewString()
	farmerToken, err := tokens.Generate(farmerId, common.RoleFarmer, time.Hour)
	require.NoError(t, err)

	stub := &dealServiceStub{}
	e := newDealTestServer(stub, tokens)
	entityId := uuid.NewString()

	rec := doJSON(e, http.MethodPost, "/api/deal/farmerReq", `{"entity_id":"`+entityId+`"}`, farmerToken)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastSubmit)
	assert.Equal(t, common.KindFarmerReq, stub.lastSubmit.Kind)
	assert.Equal(t, entityId, stub.lastSubmit.EntityId)
	assert.Equal(t, farmerId, stub.lastSubmit.OwnerId)
}
