package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chat-client/internal/application/dispatcher"
	"go-chat-client/internal/application/facade"
	"go-chat-client/internal/application/toast"
	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/connection"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/store"
	"go-chat-client/internal/infrastructure/timer"
)

type inlinePoster struct{}

func (inlinePoster) Post(fn func()) error { fn(); return nil }

type failingDialer struct{}

func (failingDialer) Dial(context.Context, connection.OnMessage) (connection.Handle, error) {
	return nil, errors.New("offline")
}

type testAPI struct {
	router *gin.Engine
	stores *store.Stores
	clock  *timer.Fake
}

func newTestAPI() *testAPI {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	stores := store.New()
	clock := timer.NewFake()

	toasts := toast.NewManager(stores.Toasts, clock, 2*time.Second, log, nil)
	d := dispatcher.New(stores.Connection, log, nil)
	chat := facade.NewChatApplicationService(stores, d, toasts, failingDialer{}, inlinePoster{}, log, nil)

	router := gin.New()
	InitRESTRouter(NewChatHandler(chat, stores, log), NewToastHandler(toasts, log), router.Group(""))

	return &testAPI{router: router, stores: stores, clock: clock}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestToastEndpoints(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodPost, "/api/toasts", `{"category":"Info","text":"Saved"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item model.ToastItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.NotEmpty(t, item.ID)
	assert.True(t, item.Visible)

	rec = api.do(http.MethodGet, "/api/toasts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total      int               `json:"total"`
		Toasts     []model.ToastItem `json:"toasts"`
		DurationMS int64             `json:"duration_ms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, int64(2000), list.DurationMS)

	rec = api.do(http.MethodDelete, "/api/toasts/"+item.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(http.MethodDelete, "/api/toasts/"+item.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, api.stores.Toasts.Read())
}

func TestToastEndpoints_RejectsUnknownCategory(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodPost, "/api/toasts", `{"category":"Warning","text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, api.stores.Toasts.Read())
}

func TestToastEndpoints_Reset(t *testing.T) {
	api := newTestAPI()
	api.do(http.MethodPost, "/api/toasts", `{"category":"Info","text":"a"}`)
	api.do(http.MethodPost, "/api/toasts", `{"category":"Success","text":"b"}`)

	rec := api.do(http.MethodDelete, "/api/toasts", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, api.stores.Toasts.Read())

	api.clock.Advance(time.Minute)
	assert.Empty(t, api.stores.Toasts.Read())
}

func TestChatEndpoints(t *testing.T) {
	api := newTestAPI()

	rec := api.do(http.MethodPost, "/api/messages", `{"message":"hi"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPost, "/api/messages", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/name", `{"name":"ana"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "ana", api.stores.Name.Read())

	api.stores.HasRegisteredName.Write(true)
	rec = api.do(http.MethodPost, "/api/messages", `{"message":"hi"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connected":false`)

	api.stores.Messages.Write([]model.ChatMessage{{Name: "ana", Message: "hi"}})
	rec = api.do(http.MethodGet, "/api/messages", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = api.do(http.MethodGet, "/api/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, false, status["connected"])
	assert.Equal(t, true, status["registered"])
	assert.Equal(t, "ana", status["name"])
}
