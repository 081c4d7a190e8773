package handlers

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"spectrobackend/core"
	"spectrobackend/models"
	"spectrobackend/services"
)

const (
	signatureHeader = "X-Signature-Ed25519"
	timestampHeader = "X-Signature-Timestamp"
)

// DiscordInteractionsHandler is the trust boundary for inbound interaction
// webhooks: it authenticates the envelope, decodes the payload, hands it to
// the dispatcher and writes the resulting callback.
type DiscordInteractionsHandler struct {
	publicKey         ed25519.PublicKey
	dispatcherService services.DispatcherService
	guildsService     services.GuildsService
}

func NewDiscordInteractionsHandler(
	publicKey ed25519.PublicKey,
	dispatcherService services.DispatcherService,
	guildsService services.GuildsService,
) *DiscordInteractionsHandler {
	return &DiscordInteractionsHandler{
		publicKey:         publicKey,
		dispatcherService: dispatcherService,
		guildsService:     guildsService,
	}
}

func (h *DiscordInteractionsHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	log.Printf("⚡ Discord interaction received from %s", r.RemoteAddr)

	// Charset suffixes and the like are hard rejections; Discord always
	// sends exactly application/json.
	if r.Header.Get("Content-Type") != "application/json" {
		log.Printf("❌ Rejected interaction with content type %q", r.Header.Get("Content-Type"))
		http.Error(w, "unsupported content type", http.StatusBadRequest)
		return
	}

	// Both signature headers must be present before the body is touched.
	signatureHex := r.Header.Get(signatureHeader)
	timestamp := r.Header.Get(timestampHeader)
	if signatureHex == "" || timestamp == "" {
		log.Printf("❌ Rejected interaction with missing signature headers")
		http.Error(w, "missing signature headers", http.StatusBadRequest)
		return
	}

	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		log.Printf("❌ Rejected interaction with malformed timestamp %q", timestamp)
		http.Error(w, "malformed signature timestamp", http.StatusBadRequest)
		return
	}
	now := time.Unix(seconds, 0).UTC()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read interaction body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := VerifyInteractionSignature(h.publicKey, signatureHex, timestamp, body); err != nil {
		log.Printf("❌ Interaction signature verification failed: %v", err)
		http.Error(w, "signature verification failed", http.StatusUnauthorized)
		return
	}

	interaction, err := models.ParseInteraction(body)
	if err != nil {
		var validationErr *core.ValidationError
		if errors.As(err, &validationErr) {
			log.Printf("❌ Interaction failed validation at %s: %s", validationErr.Path, validationErr.Message)
		} else {
			log.Printf("❌ Interaction failed validation: %v", err)
		}
		http.Error(w, "invalid interaction payload", http.StatusBadRequest)
		return
	}

	// Refresh guild metadata off the hot path; the continuation token only
	// lives a few seconds.
	if h.guildsService != nil && interaction.GuildID != nil {
		guildID := *interaction.GuildID
		go func() {
			if err := h.guildsService.SyncGuildMetadata(context.Background(), guildID); err != nil {
				log.Printf("⚠️ Failed to sync metadata for guild %s: %v", guildID, err)
			}
		}()
	}

	callback, err := h.dispatcherService.DispatchInteraction(r.Context(), now, interaction)
	if err != nil {
		callback = h.degradedCallback(err)
		if callback == nil {
			// Nothing sensible to answer with; the platform will surface an
			// interaction timeout to the user.
			log.Printf("❌ Dispatch failed with no callback to degrade to: %v", err)
			http.Error(w, "failed to handle interaction", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(callback); err != nil {
		log.Printf("❌ Failed to write interaction callback: %v", err)
	}
}

// degradedCallback maps dispatcher failures onto a generic error callback so
// the invoking user is not left without feedback. Internal bugs are logged
// at error severity and must never crash the process.
func (h *DiscordInteractionsHandler) degradedCallback(err error) *models.InteractionCallback {
	var unknownCommand *core.UnknownCommandError
	var unsupportedType *core.UnsupportedInteractionTypeError
	var invariant *core.InvariantViolationError

	switch {
	case errors.As(err, &unknownCommand):
		log.Printf("❌ Dispatcher received unknown command %q", unknownCommand.Name)
		return models.EphemeralMessageWithSource("I don't know that command.")
	case errors.As(err, &unsupportedType):
		log.Printf("❌ Dispatcher received unsupported interaction type %d", unsupportedType.Type)
		return models.EphemeralMessageWithSource("I can't handle that kind of interaction.")
	case errors.As(err, &invariant):
		log.Printf("❌ Dispatcher invariant violation: %v", invariant)
		return models.EphemeralMessageWithSource("Something went wrong while handling that interaction.")
	default:
		log.Printf("❌ Dispatch failed: %v", err)
		return models.EphemeralMessageWithSource("Something went wrong while handling that interaction.")
	}
}

func (h *DiscordInteractionsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Discord interactions endpoint on /webhook/discord/interaction")
	router.HandleFunc("/webhook/discord/interaction", h.HandleInteraction).Methods("POST")
	log.Printf("✅ Discord interactions endpoint registered successfully")
}
