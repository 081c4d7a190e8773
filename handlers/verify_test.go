package handlers

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spectrobackend/core"
	"spectrobackend/testutils"
)

func TestVerifyInteractionSignature_Valid(t *testing.T) {
	publicKey, privateKey := testutils.GenerateInteractionKeypair(t)
	timestamp := "1717243200"
	body := []byte(`{"id":"1","token":"tok","type":1}`)

	signature := ed25519.Sign(privateKey, append([]byte(timestamp), body...))

	err := VerifyInteractionSignature(publicKey, hex.EncodeToString(signature), timestamp, body)
	require.NoError(t, err)
}

func TestVerifyInteractionSignature_TamperedBody(t *testing.T) {
	publicKey, privateKey := testutils.GenerateInteractionKeypair(t)
	timestamp := "1717243200"
	body := []byte(`{"id":"1","token":"tok","type":1}`)
	signature := ed25519.Sign(privateKey, append([]byte(timestamp), body...))

	tampered := []byte(`{"id":"2","token":"tok","type":1}`)

	err := VerifyInteractionSignature(publicKey, hex.EncodeToString(signature), timestamp, tampered)
	require.ErrorIs(t, err, core.ErrUnauthenticated)
}

func TestVerifyInteractionSignature_TimestampIsPartOfMessage(t *testing.T) {
	publicKey, privateKey := testutils.GenerateInteractionKeypair(t)
	body := []byte(`{"id":"1","token":"tok","type":1}`)
	signature := ed25519.Sign(privateKey, append([]byte("1717243200"), body...))

	// Same body, different timestamp: replayed envelopes must not verify
	err := VerifyInteractionSignature(publicKey, hex.EncodeToString(signature), "1717243201", body)
	require.ErrorIs(t, err, core.ErrUnauthenticated)
}

func TestVerifyInteractionSignature_MalformedHex(t *testing.T) {
	publicKey, _ := testutils.GenerateInteractionKeypair(t)

	err := VerifyInteractionSignature(publicKey, "zz-not-hex", "1717243200", []byte(`{}`))
	require.ErrorIs(t, err, core.ErrUnauthenticated)
}

func TestVerifyInteractionSignature_WrongLength(t *testing.T) {
	publicKey, _ := testutils.GenerateInteractionKeypair(t)

	err := VerifyInteractionSignature(publicKey, "deadbeef", "1717243200", []byte(`{}`))
	require.ErrorIs(t, err, core.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "64 bytes")
}

func TestVerifyInteractionSignature_WrongKey(t *testing.T) {
	publicKey, _ := testutils.GenerateInteractionKeypair(t)
	_, otherPrivateKey := testutils.GenerateInteractionKeypair(t)

	timestamp := "1717243200"
	body := []byte(`{"id":"1","token":"tok","type":1}`)
	signature := ed25519.Sign(otherPrivateKey, append([]byte(timestamp), body...))

	err := VerifyInteractionSignature(publicKey, hex.EncodeToString(signature), timestamp, body)
	require.ErrorIs(t, err, core.ErrUnauthenticated)
}
