package handlers

import (
	"crypto/ed25519"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spectrobackend/models"
	"spectrobackend/services/confessions"
	"spectrobackend/services/dispatcher"
	"spectrobackend/testutils"
)

const interactionTarget = "/webhook/discord/interaction"

func setupHandler(t *testing.T) (*DiscordInteractionsHandler, ed25519.PrivateKey, *confessions.MockConfessionsService) {
	t.Helper()
	publicKey, privateKey := testutils.GenerateInteractionKeypair(t)
	mockService := new(confessions.MockConfessionsService)
	dispatcherService := dispatcher.NewInteractionDispatcher(mockService)
	handler := NewDiscordInteractionsHandler(publicKey, dispatcherService, nil)
	return handler, privateKey, mockService
}

func TestHandleInteraction_PingPong(t *testing.T) {
	handler, privateKey, _ := setupHandler(t)

	req := testutils.NewSignedInteractionRequest(t, privateKey, interactionTarget,
		`{"id":"1","token":"tok","type":1}`)
	recorder := httptest.NewRecorder()

	handler.HandleInteraction(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"type":1}`, recorder.Body.String())
}

func TestHandleInteraction_ConfessCommand(t *testing.T) {
	handler, privateKey, mockService := setupHandler(t)

	mockService.On("SubmitConfession",
		mock.Anything, mock.Anything, models.Snowflake(100), mock.Anything, mock.Anything).
		Return("Confession #42 submitted.", nil)

	body := `{
		"id": "1",
		"token": "tok",
		"type": 2,
		"channel_id": "100",
		"member": {"user": {"id": "42", "username": "mason"}},
		"data": {"name": "confess", "options": [{"name": "content", "type": 3, "value": "hello"}]}
	}`
	req := testutils.NewSignedInteractionRequest(t, privateKey, interactionTarget, body)
	recorder := httptest.NewRecorder()

	handler.HandleInteraction(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"type":4,"data":{"content":"Confession #42 submitted."}}`, recorder.Body.String())
	mockService.AssertExpectations(t)
}

func TestHandleInteraction_RejectsWrongContentType(t *testing.T) {
	handler, privateKey, _ := setupHandler(t)

	req := testutils.NewSignedInteractionRequest(t, privateKey, interactionTarget,
		`{"id":"1","token":"tok","type":1}`)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	recorder := httptest.NewRecorder()

	handler.HandleInteraction(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleInteraction_RejectsMissingSignatureHeaders(t *testing.T) {
	handler, privateKey, _ := setupHandler(t)

	for _, header := range []string{"X-Signature-Ed25519", "X-Signature-Timestamp"} {
		req := testutils.NewSignedInteractionRequest(t, privateKey, interactionTarget,
			`{"id":"1","token":"tok","type":1}`)
		req.Header.Del(header)
		recorder := httptest.NewRecorder()

		handler.HandleInteraction(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code, "missing %s", header)
	}
}

func TestHandleInteraction_RejectsMalformedTimestamp(t *testing.T) {
	handler, privateKey, _ := setupHandler(t)

	req := testutils.NewSignedInteractionRequest(t, privateKey, interactionTarget,
		`{"id":"1","token":"tok","type":1}`)
	req.Header.Set("X-Signature-Timestamp", "yesterday")
	recorder := httptest.NewRecorder()

	handler.HandleInteraction(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleInteraction_RejectsTamperedBody(t *testing.T) {
	handler, privateKey, _ := setupHandler(t)

	// Sign one body, then swap in another: the signature no longer matches
	req := testutils.NewSignedInteractionRequest(t, privateKey, interactionTarget,
		`{"id":"1","token":"tok","type":1}`)
	tampered := testutils.NewSignedInteractionRequest(t, privateKey, interactionTarget,
		`{"id":"2","token":"tok","type":1}`)
	tampered.Header.Set("X-Signature-Ed25519", req.Header.Get("X-Signature-Ed25519"))
	tampered.Header.Set("X-Signature-Timestamp", req.Header.Get("X-Signature-Timestamp"))
	recorder := httptest.NewRecorder()

	handler.HandleInteraction(recorder, tampered)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHandleInteraction_RejectsInvalidPayload(t *testing.T) {
	handler, privateKey, _ := setupHandler(t)

	// Authenticated but structurally invalid: type 2 without command data
	req := testutils.NewSignedInteractionRequest(t, privateKey, interactionTarget,
		`{"id":"1","token":"tok","type":2}`)
	recorder := httptest.NewRecorder()

	handler.HandleInteraction(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleInteraction_UnknownCommandDegradesGracefully(t *testing.T) {
	handler, privateKey, _ := setupHandler(t)

	body := `{
		"id": "1",
		"token": "tok",
		"type": 2,
		"channel_id": "100",
		"member": {"user": {"id": "42", "username": "mason"}},
		"data": {"name": "dance", "options": []}
	}`
	req := testutils.NewSignedInteractionRequest(t, privateKey, interactionTarget, body)
	recorder := httptest.NewRecorder()

	handler.HandleInteraction(recorder, req)

	// The user gets an ephemeral explanation instead of a dead interaction
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"type":4,"data":{"content":"I don't know that command.","flags":64}}`,
		recorder.Body.String())
}
