package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"spectrobackend/clients"
	"spectrobackend/models"
)

const defaultAPIBaseURL = "https://discord.com/api/v10"

// DiscordHTTPClient implements the clients.DiscordClient interface against
// the Discord REST API.
type DiscordHTTPClient struct {
	httpClient *http.Client
	botToken   string
	apiBaseURL string
}

func NewDiscordHTTPClient(httpClient *http.Client, botToken string) *DiscordHTTPClient {
	return &DiscordHTTPClient{
		httpClient: httpClient,
		botToken:   botToken,
		apiBaseURL: defaultAPIBaseURL,
	}
}

// NewDiscordHTTPClientWithBaseURL points the client at a different API base.
// Tests use this to talk to a local server.
func NewDiscordHTTPClientWithBaseURL(httpClient *http.Client, botToken, apiBaseURL string) *DiscordHTTPClient {
	return &DiscordHTTPClient{
		httpClient: httpClient,
		botToken:   botToken,
		apiBaseURL: apiBaseURL,
	}
}

// CreateMessage posts a message to a channel. The payload travels as a
// multipart form with a payload_json field, which is the shape Discord
// requires once file attachments come into play.
func (c *DiscordHTTPClient) CreateMessage(
	ctx context.Context,
	channelID models.Snowflake,
	message *models.CreateMessage,
) (*models.Message, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message payload: %w", err)
	}

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	if err := writer.WriteField("payload_json", string(payload)); err != nil {
		return nil, fmt.Errorf("failed to write payload_json field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	url := fmt.Sprintf("%s/channels/%s/messages", c.apiBaseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &form)
	if err != nil {
		return nil, fmt.Errorf("failed to create message request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bot "+c.botToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute create message request: %w", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read create message response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		discordErr, err := decodeDiscordError(body)
		if err != nil {
			return nil, fmt.Errorf("create message failed with status %d: %w", resp.StatusCode, err)
		}
		log.Printf("❌ Create message rejected with status %d code %d in %dms: %s",
			resp.StatusCode, discordErr.Code, elapsed.Milliseconds(), discordErr.Message)
		return nil, discordErr
	}

	var created models.Message
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created message: %w", err)
	}

	log.Printf("📤 Created message %s in channel %s in %dms", created.ID, channelID, elapsed.Milliseconds())
	return &created, nil
}

// EditMessage rewrites an existing message in place. Used to turn a pending
// moderation-log entry into its approved form once a confession clears review.
func (c *DiscordHTTPClient) EditMessage(
	ctx context.Context,
	channelID models.Snowflake,
	messageID models.Snowflake,
	message *models.EditMessage,
) (*models.Message, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message edit: %w", err)
	}

	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.apiBaseURL, channelID, messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create edit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+c.botToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute edit message request: %w", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read edit message response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		discordErr, err := decodeDiscordError(body)
		if err != nil {
			return nil, fmt.Errorf("edit message failed with status %d: %w", resp.StatusCode, err)
		}
		log.Printf("❌ Edit message rejected with status %d code %d in %dms: %s",
			resp.StatusCode, discordErr.Code, elapsed.Milliseconds(), discordErr.Message)
		return nil, discordErr
	}

	var edited models.Message
	if err := json.Unmarshal(body, &edited); err != nil {
		return nil, fmt.Errorf("failed to decode edited message: %w", err)
	}

	log.Printf("📤 Edited message %s in channel %s in %dms", edited.ID, channelID, elapsed.Milliseconds())
	return &edited, nil
}

// DeleteMessage removes a message. Discord responds 204 with no body.
func (c *DiscordHTTPClient) DeleteMessage(
	ctx context.Context,
	channelID models.Snowflake,
	messageID models.Snowflake,
) error {
	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.apiBaseURL, channelID, messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute delete message request: %w", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode != http.StatusNoContent {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read delete message response: %w", err)
		}
		discordErr, err := decodeDiscordError(body)
		if err != nil {
			return fmt.Errorf("delete message failed with status %d: %w", resp.StatusCode, err)
		}
		log.Printf("❌ Delete message rejected with status %d code %d in %dms: %s",
			resp.StatusCode, discordErr.Code, elapsed.Milliseconds(), discordErr.Message)
		return discordErr
	}

	log.Printf("📤 Deleted message %s in channel %s in %dms", messageID, channelID, elapsed.Milliseconds())
	return nil
}

// CreateInteractionCallback answers an interaction through its continuation
// token. Discord responds 204 with no body on success.
func (c *DiscordHTTPClient) CreateInteractionCallback(
	ctx context.Context,
	interactionID models.Snowflake,
	interactionToken string,
	callback *models.InteractionCallback,
) error {
	payload, err := json.Marshal(callback)
	if err != nil {
		return fmt.Errorf("failed to serialize interaction callback: %w", err)
	}

	url := fmt.Sprintf("%s/interactions/%s/%s/callback", c.apiBaseURL, interactionID, interactionToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+c.botToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute callback request: %w", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode != http.StatusNoContent {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read callback response: %w", err)
		}
		discordErr, err := decodeDiscordError(body)
		if err != nil {
			return fmt.Errorf("interaction callback failed with status %d: %w", resp.StatusCode, err)
		}
		log.Printf("❌ Interaction callback rejected with status %d code %d in %dms: %s",
			resp.StatusCode, discordErr.Code, elapsed.Milliseconds(), discordErr.Message)
		return discordErr
	}

	log.Printf("📤 Interaction callback created in %dms", elapsed.Milliseconds())
	return nil
}

// GetGuildByID fetches guild metadata using the bot token.
func (c *DiscordHTTPClient) GetGuildByID(guildID models.Snowflake) (*clients.DiscordGuild, error) {
	sdkClient, err := discordgo.New("Bot " + c.botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Use our HTTP client
	sdkClient.Client = c.httpClient

	discordGuild, err := sdkClient.Guild(guildID.String(), discordgo.WithContext(context.Background()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild: %w", err)
	}
	if discordGuild == nil {
		return nil, fmt.Errorf("guild not found")
	}

	return &clients.DiscordGuild{
		ID:         discordGuild.ID,
		Name:       discordGuild.Name,
		IconHash:   discordGuild.Icon,
		SplashHash: discordGuild.Splash,
	}, nil
}

func decodeDiscordError(body []byte) (*models.DiscordError, error) {
	var discordErr models.DiscordError
	if err := json.Unmarshal(body, &discordErr); err != nil {
		return nil, fmt.Errorf("failed to decode error body %q: %w", string(body), err)
	}
	return &discordErr, nil
}
