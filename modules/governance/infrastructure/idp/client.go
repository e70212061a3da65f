// Package idp implements the identity-provider port against a
// Keycloak-style admin REST API.
package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/governance/modules/governance/domain/approval"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/pkg/configuration"
)

// itemPayload is the envelope stored in an approval item: the operation to
// perform and the resource representation to send.
type itemPayload struct {
	Op   string          `json:"op"`
	Body json.RawMessage `json:"body,omitempty"`
}

const (
	OpCreate = "CREATE"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

type Client struct {
	baseURL string
	realm   string
	token   string
	http    *http.Client
	log     *logrus.Logger
}

func NewClient(opts configuration.IdentityProviderOptions, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		realm:   opts.Realm,
		token:   opts.Token,
		http:    &http.Client{},
		log:     log,
	}
}

// ApplyItem pushes one approved mutation downstream. Creating or deleting a
// built-in role is refused before any request is made.
func (c *Client) ApplyItem(ctx context.Context, item approval.Item) error {
	var payload itemPayload
	if err := json.Unmarshal(item.Payload, &payload); err != nil {
		return errors.Wrap(err, "malformed approval item payload")
	}

	if item.TargetKind == "ROLE" && payload.Op != OpUpdate && role.BuiltIn(item.TargetID) {
		return fmt.Errorf("built-in role %s cannot be created or deleted", item.TargetID)
	}

	method, url, err := c.route(item.TargetKind, item.TargetID, payload.Op)
	if err != nil {
		return err
	}

	var body io.Reader
	if len(payload.Body) > 0 {
		body = bytes.NewReader(payload.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.Wrap(err, "failed to build identity provider request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "identity provider request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if c.log != nil {
			c.log.WithFields(logrus.Fields{
				"status": resp.StatusCode,
				"kind":   item.TargetKind,
				"target": item.TargetID,
			}).Error("identity provider rejected mutation")
		}
		return fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}

func (c *Client) route(kind, id, op string) (method, url string, err error) {
	var collection string
	switch kind {
	case "USER":
		collection = "users"
	case "ROLE":
		collection = "roles"
	case "GROUP":
		collection = "groups"
	default:
		return "", "", fmt.Errorf("unsupported target kind: %s", kind)
	}
	base := fmt.Sprintf("%s/admin/realms/%s/%s", c.baseURL, c.realm, collection)
	switch op {
	case OpCreate:
		return http.MethodPost, base, nil
	case OpUpdate:
		return http.MethodPut, base + "/" + id, nil
	case OpDelete:
		return http.MethodDelete, base + "/" + id, nil
	}
	return "", "", fmt.Errorf("unsupported operation: %s", op)
}
