package semaphore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestHttpHandler(t *testing.T) {
	suite.Run(t, new(httpHandlerTestSuite))
}

type httpHandlerTestSuite struct {
	suite.Suite

	gateway *gateway
	repo    *dispatchRepository
	router  http.Handler
}

func (suite *httpHandlerTestSuite) SetupTest() {
	logger, _ := logtest.NewNullLogger()

	suite.gateway = &gateway{
		response: Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": {"application/json"}},
			Body:       []byte(`{"credit_balance":10}`),
		},
	}
	suite.repo = &dispatchRepository{}
	suite.router = NewHttpHandler(suite.gateway, suite.repo, logger).Router()
}

func (suite *httpHandlerTestSuite) serve(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()

	suite.router.ServeHTTP(rec, req)

	return rec
}

func (suite *httpHandlerTestSuite) TestQueryRoutes() {
	routes := map[string]string{
		"/balance":              "Balance",
		"/account":              "Account",
		"/account/users":        "Users",
		"/account/sendernames":  "SenderNames",
		"/account/transactions": "Transactions",
	}

	for path, operation := range routes {
		rec := suite.serve(http.MethodGet, path, "")

		assert.Equal(suite.T(), http.StatusOK, rec.Code, path)
		assert.Equal(suite.T(), `{"credit_balance":10}`, rec.Body.String(), path)
		assert.Equal(suite.T(), operation, suite.gateway.called, path)
	}
}

func (suite *httpHandlerTestSuite) TestSendMessage() {
	rec := suite.serve(http.MethodPost, "/messages", `{"number":"639171234567","message":"hello"}`)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "Send", suite.gateway.called)
	assert.Equal(suite.T(), "639171234567", suite.gateway.recipient)
	assert.Equal(suite.T(), "hello", suite.gateway.message)
}

func (suite *httpHandlerTestSuite) TestSendMessageInvalidJson() {
	rec := suite.serve(http.MethodPost, "/messages", `{`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Empty(suite.T(), suite.gateway.called)
}

func (suite *httpHandlerTestSuite) TestSendMessageMissingNumber() {
	rec := suite.serve(http.MethodPost, "/messages", `{"message":"hello"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Empty(suite.T(), suite.gateway.called)
}

func (suite *httpHandlerTestSuite) TestValidationErrorIsBadRequest() {
	suite.gateway.err = TooManyRecipientsErr

	rec := suite.serve(http.MethodPost, "/messages", `{"number":"1,2","message":"hello"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "1000 recipients")
}

func (suite *httpHandlerTestSuite) TestUpstreamStatusIsPassedThrough() {
	suite.gateway.response = Response{StatusCode: http.StatusUnauthorized, Body: []byte(`{"message":"bad key"}`)}
	suite.gateway.err = &StatusError{Method: http.MethodGet, Path: "account", Response: suite.gateway.response}

	rec := suite.serve(http.MethodGet, "/balance", "")

	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	assert.Equal(suite.T(), `{"message":"bad key"}`, rec.Body.String())
	assert.Equal(suite.T(), "application/json", rec.Header().Get("Content-Type"))
}

func (suite *httpHandlerTestSuite) TestTransportErrorIsBadGateway() {
	suite.gateway.err = errors.New("connection refused")

	rec := suite.serve(http.MethodGet, "/account/users", "")

	assert.Equal(suite.T(), http.StatusBadGateway, rec.Code)
}

func (suite *httpHandlerTestSuite) TestWrongMethodIsRejected() {
	rec := suite.serve(http.MethodPost, "/balance", "")

	assert.Equal(suite.T(), http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(suite.T(), suite.gateway.called)
}

func (suite *httpHandlerTestSuite) TestGetRecentDispatches() {
	sent := Dispatch{
		Uuid:       uuid.New(),
		SenderName: "Gemango",
		Recipients: []string{"09171234567"},
		Message:    "hello",
		StatusCode: http.StatusOK,
	}
	suite.repo.created = []Dispatch{sent}

	rec := suite.serve(http.MethodGet, "/dispatches?limit=5", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), 5, suite.repo.limit)

	var payload struct {
		Data []Dispatch `json:"data"`
	}
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(suite.T(), payload.Data, 1)
	assert.Equal(suite.T(), sent.Uuid, payload.Data[0].Uuid)
	assert.Equal(suite.T(), sent.Recipients, payload.Data[0].Recipients)
}

func (suite *httpHandlerTestSuite) TestGetRecentDispatchesDefaultLimit() {
	rec := suite.serve(http.MethodGet, "/dispatches", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), 0, suite.repo.limit)
	assert.JSONEq(suite.T(), `{"data":null}`, rec.Body.String())
}

func (suite *httpHandlerTestSuite) TestGetRecentDispatchesInvalidLimit() {
	for _, limit := range []string{"ten", "-1"} {
		rec := suite.serve(http.MethodGet, "/dispatches?limit="+limit, "")
		assert.Equal(suite.T(), http.StatusBadRequest, rec.Code, limit)
	}
}

func (suite *httpHandlerTestSuite) TestGetRecentDispatchesRepositoryFailure() {
	suite.repo.err = errors.New("database is down")

	rec := suite.serve(http.MethodGet, "/dispatches", "")

	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
}

func TestDispatchesRouteRequiresRepository(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	router := NewHttpHandler(&gateway{}, nil, logger).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dispatches", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type gateway struct {
	response Response
	err      error

	called    string
	recipient string
	message   string
}

func (g *gateway) result(operation string) (Response, error) {
	g.called = operation
	return g.response, g.err
}

func (g *gateway) Balance(ctx context.Context) (Response, error) {
	return g.result("Balance")
}

func (g *gateway) Send(ctx context.Context, recipient, message string) (Response, error) {
	g.recipient = recipient
	g.message = message

	return g.result("Send")
}

func (g *gateway) Account(ctx context.Context) (Response, error) {
	return g.result("Account")
}

func (g *gateway) Users(ctx context.Context) (Response, error) {
	return g.result("Users")
}

func (g *gateway) SenderNames(ctx context.Context) (Response, error) {
	return g.result("SenderNames")
}

func (g *gateway) Transactions(ctx context.Context) (Response, error) {
	return g.result("Transactions")
}
