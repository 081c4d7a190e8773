package middleware

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

type DiscordAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

// ErrorAlertMiddleware recovers panics in HTTP handlers and background
// tasks, deduplicates repeated failures and pushes them to a Discord
// webhook. An invariant violation must never take the process down.
type ErrorAlertMiddleware struct {
	config        DiscordAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.RWMutex
	alertCooldown time.Duration // prevent spam
}

func NewErrorAlertMiddleware(config DiscordAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // Don't alert same error more than once per 10min
	}
}

// HTTPMiddleware wraps HTTP handlers with panic recovery.
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverAndAlert(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// WrapBackgroundTask wraps periodic work with recovery and alerting.
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() error {
		defer m.recoverAndAlert(fmt.Sprintf("Background task: %s", taskName))

		if err := task(); err != nil {
			m.alertOnError(err, fmt.Sprintf("Background task: %s", taskName))
			return err
		}
		return nil
	}
}

func (m *ErrorAlertMiddleware) alertOnError(err error, context string) {
	errorMsg := fmt.Sprintf("%s: %v", context, err)

	// Hash the error for deduplication
	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists {
		if time.Since(lastAlert) < m.alertCooldown {
			return // Skip alert - too recent
		}
	}

	go m.sendDiscordAlert(errorMsg, context)
	m.alertedErrors[hash] = time.Now()
}

func (m *ErrorAlertMiddleware) recoverAndAlert(context string) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("%s: PANIC - %v", context, r)
		log.Printf("❌ %s", errorMsg)
		go m.sendDiscordAlert(errorMsg, context+" (PANIC)")
	}
}

func (m *ErrorAlertMiddleware) sendDiscordAlert(errorMsg, context string) {
	if m.config.WebhookURL == "" {
		return // Discord alerts disabled
	}

	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	lines := []string{
		fmt.Sprintf("🚨 **%s%s Error Alert**", envPrefix, m.config.AppName),
		fmt.Sprintf("**Environment:** %s", m.config.Environment),
		fmt.Sprintf("**Context:** %s", context),
		fmt.Sprintf("**Error:**\n```%s```", errorMsg),
	}
	if m.config.LogsURL != "" {
		lines = append(lines, fmt.Sprintf("🔗 [View Logs](%s)", m.config.LogsURL))
	}

	payload := map[string]any{
		"content": strings.Join(lines, "\n"),
		// Alerts must never ping anyone, whatever ends up in the error text.
		"allowed_mentions": map[string]any{"parse": []string{}},
	}

	payloadBytes, _ := json.Marshal(payload)

	resp, err := http.Post(m.config.WebhookURL, "application/json",
		strings.NewReader(string(payloadBytes)))
	if err != nil {
		log.Printf("❌ Failed to send Discord alert: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		log.Printf("❌ Discord alert failed with status: %d", resp.StatusCode)
	}
}
