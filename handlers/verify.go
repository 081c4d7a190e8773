package handlers

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"spectrobackend/core"
)

// VerifyInteractionSignature authenticates a raw webhook body against the
// process-wide Ed25519 public key. The signed message is the raw timestamp
// header concatenated with the raw body bytes, exactly as received;
// re-serializing the body would break the signature. Malformed hex is a
// verification failure, never a crash.
func VerifyInteractionSignature(publicKey ed25519.PublicKey, signatureHex, timestamp string, body []byte) error {
	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return fmt.Errorf("%w: malformed signature hex", core.ErrUnauthenticated)
	}
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: signature must be %d bytes", core.ErrUnauthenticated, ed25519.SignatureSize)
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)

	if !ed25519.Verify(publicKey, message, signature) {
		return fmt.Errorf("%w: signature verification failed", core.ErrUnauthenticated)
	}

	return nil
}
