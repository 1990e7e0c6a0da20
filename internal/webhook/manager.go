// Package webhook manages the provider webhook registration for one trigger
// and turns inbound deliveries into event records.
package webhook

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
)

// Manager drives the registration lifecycle of one trigger: CheckExists,
// Create and Delete are called in sequence by the host, which also owns the
// StaticData passed to each call.
type Manager struct {
	client     proposify.RequestClient
	webhookURL string
	event      proposify.Event
	secret     string
	logger     proposify.Logger
}

// NewManager creates a manager for the (webhookURL, event) pair. An empty
// secret disables signature checks on delivery.
func NewManager(client proposify.RequestClient, webhookURL string, event proposify.Event, secret string, logger proposify.Logger) *Manager {
	if event == "" {
		event = proposify.DefaultEvent
	}

	return &Manager{
		client:     client,
		webhookURL: webhookURL,
		event:      event,
		secret:     secret,
		logger:     logger,
	}
}

// Event returns the configured event.
func (m *Manager) Event() proposify.Event {
	return m.event
}

// WebhookURL returns the callback URL this manager registers.
func (m *Manager) WebhookURL() string {
	return m.webhookURL
}

// List returns every registration known to the provider.
func (m *Manager) List(ctx context.Context) ([]proposify.Registration, error) {
	resp, err := m.client.Request(ctx, proposify.MethodGet, constants.WebhooksPath, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	raw, _ := resp[constants.DataField].([]any)
	registrations := make([]proposify.Registration, 0, len(raw))

	for _, entry := range raw {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		registrations = append(registrations, registrationFrom(record))
	}

	return registrations, nil
}

// CheckExists looks for a registration matching this trigger's URL and event
// and caches its id in data. Listing failures count as "not found".
func (m *Manager) CheckExists(ctx context.Context, data StaticData) bool {
	registrations, err := m.List(ctx)
	if err != nil {
		m.log("warn", "webhook probe failed", map[string]interface{}{"error": err.Error()})

		return false
	}

	for _, registration := range registrations {
		if registration.URL == m.webhookURL && registration.Event == string(m.event) {
			data.SetWebhookID(registration.ID)
			m.log("debug", "webhook already registered", map[string]interface{}{"id": registration.ID})

			return true
		}
	}

	return false
}

// Create registers this trigger with the provider. The returned id is cached
// only on success; provider failures are returned to the caller.
func (m *Manager) Create(ctx context.Context, data StaticData) (bool, error) {
	body := proposify.Record{
		"url":    m.webhookURL,
		"event":  string(m.event),
		"active": true,
	}

	if m.secret != "" {
		body["secret"] = m.secret
	}

	resp, err := m.client.Request(ctx, proposify.MethodPost, constants.WebhooksPath, body, nil)
	if err != nil {
		return false, fmt.Errorf("creating webhook: %w", err)
	}

	created, _ := resp[constants.DataField].(map[string]any)

	id := idString(created["id"])
	if id == "" {
		m.log("warn", "webhook created without id", map[string]interface{}{"url": m.webhookURL})

		return false, nil
	}

	data.SetWebhookID(id)
	m.log("info", "webhook registered", map[string]interface{}{"id": id, "event": string(m.event)})

	return true, nil
}

// Delete removes the cached registration. Failures are logged and ignored:
// the cached id is always cleared and Delete always reports true.
func (m *Manager) Delete(ctx context.Context, data StaticData) bool {
	id := data.WebhookID()
	if id == "" {
		return true
	}

	_, err := m.client.Request(ctx, proposify.MethodDelete, constants.WebhooksPath+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		m.log("warn", "webhook cleanup failed", map[string]interface{}{"id": id, "error": err.Error()})
	} else {
		m.log("info", "webhook deleted", map[string]interface{}{"id": id})
	}

	data.ClearWebhookID()

	return true
}

func (m *Manager) log(level, msg string, fields map[string]interface{}) {
	if m.logger == nil {
		return
	}

	switch level {
	case "debug":
		m.logger.Debug(msg, fields)
	case "warn":
		m.logger.Warn(msg, fields)
	default:
		m.logger.Info(msg, fields)
	}
}

func registrationFrom(record proposify.Record) proposify.Registration {
	registration := proposify.Registration{ID: idString(record["id"])}

	registration.URL, _ = record["url"].(string)
	registration.Event, _ = record["event"].(string)
	registration.Active, _ = record["active"].(bool)
	registration.Secret, _ = record["secret"].(string)

	return registration
}

// idString accepts ids the provider sends either as strings or numbers.
func idString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	default:
		return ""
	}
}
