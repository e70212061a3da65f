package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/pkg/composables"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS org_nodes (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    data_level  TEXT NOT NULL,
    sensitivity TEXT NOT NULL,
    contact     TEXT NOT NULL DEFAULT '',
    phone       TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    parent_id   BIGINT REFERENCES org_nodes (id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS custom_roles (
    id                     BIGSERIAL PRIMARY KEY,
    name                   TEXT NOT NULL UNIQUE,
    operations             TEXT[] NOT NULL,
    max_data_level         TEXT NOT NULL,
    scope                  TEXT NOT NULL,
    max_rows               BIGINT,
    allow_desensitize_json BOOLEAN NOT NULL DEFAULT FALSE,
    description            TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS datasets (
    id                  TEXT PRIMARY KEY,
    business_code       TEXT NOT NULL DEFAULT '',
    name                TEXT NOT NULL,
    data_level          TEXT NOT NULL,
    owner_org_id        BIGINT NOT NULL,
    is_institute_shared BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS grants (
    id             BIGSERIAL PRIMARY KEY,
    role_code      TEXT NOT NULL,
    user_id        TEXT NOT NULL,
    username       TEXT NOT NULL,
    security_level TEXT NOT NULL,
    dataset_ids    TEXT[] NOT NULL,
    operations     TEXT[] NOT NULL,
    scope_org_id   BIGINT,
    granted_by     TEXT NOT NULL,
    granted_at     TIMESTAMPTZ NOT NULL,
    revoked_at     TIMESTAMPTZ,
    revoked_by     TEXT
);

CREATE TABLE IF NOT EXISTS change_requests (
    id              BIGSERIAL PRIMARY KEY,
    target_kind     TEXT NOT NULL,
    target_id       TEXT NOT NULL DEFAULT '',
    action          TEXT NOT NULL,
    payload         JSONB,
    diff_json       JSONB,
    status          TEXT NOT NULL,
    reason          TEXT,
    requested_by    TEXT NOT NULL,
    requested_at    TIMESTAMPTZ NOT NULL,
    decided_by      TEXT,
    decided_at      TIMESTAMPTZ,
    materialized_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS approval_requests (
    id            BIGSERIAL PRIMARY KEY,
    type          TEXT NOT NULL,
    requester     TEXT NOT NULL,
    status        TEXT NOT NULL,
    reason        TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL,
    decided_by    TEXT,
    decided_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS approval_items (
    request_id  BIGINT NOT NULL REFERENCES approval_requests (id) ON DELETE CASCADE,
    target_kind TEXT NOT NULL,
    target_id   TEXT NOT NULL DEFAULT '',
    seq_number  INT NOT NULL,
    payload     JSONB,
    PRIMARY KEY (request_id, seq_number)
);

CREATE TABLE IF NOT EXISTS portal_menus (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    path       TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    deleted    BOOLEAN NOT NULL DEFAULT FALSE,
    bindings   TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS audit_events (
    id          BIGSERIAL PRIMARY KEY,
    occurred_at TIMESTAMPTZ NOT NULL,
    actor       TEXT NOT NULL,
    action      TEXT NOT NULL,
    target_kind TEXT NOT NULL DEFAULT '',
    target_id   TEXT NOT NULL DEFAULT '',
    detail      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS system_settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_change_requests_status ON change_requests (status);
CREATE INDEX IF NOT EXISTS idx_approval_requests_status ON approval_requests (status);
CREATE INDEX IF NOT EXISTS idx_grants_user ON grants (user_id);
CREATE INDEX IF NOT EXISTS idx_audit_events_actor ON audit_events (actor);
`

// EnsureSchema creates the governance tables when they do not exist yet.
func EnsureSchema(ctx context.Context) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, schemaDDL); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
