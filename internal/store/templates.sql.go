// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createTemplate = `
INSERT INTO templates (name, style, created_at, updated_at)
VALUES (?, ?, ?, ?)
RETURNING id, name, style, created_at, updated_at
`

// CreateTemplateParams are the inputs of CreateTemplate.
type CreateTemplateParams struct {
	Name      string
	Style     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTemplate inserts a template and returns the stored row.
func (q *Queries) CreateTemplate(ctx context.Context, arg CreateTemplateParams) (Template, error) {
	row := q.db.QueryRowContext(ctx, createTemplate, arg.Name, arg.Style, arg.CreatedAt, arg.UpdatedAt)
	var i Template
	err := row.Scan(&i.ID, &i.Name, &i.Style, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getTemplate = `
SELECT id, name, style, created_at, updated_at FROM templates WHERE id = ?
`

// GetTemplate returns sql.ErrNoRows when id does not exist.
func (q *Queries) GetTemplate(ctx context.Context, id int64) (Template, error) {
	row := q.db.QueryRowContext(ctx, getTemplate, id)
	var i Template
	err := row.Scan(&i.ID, &i.Name, &i.Style, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listTemplates = `
SELECT id, name, style, created_at, updated_at FROM templates ORDER BY created_at, id
`

// ListTemplates returns all templates, oldest first.
func (q *Queries) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := q.db.QueryContext(ctx, listTemplates)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Template
	for rows.Next() {
		var i Template
		if err := rows.Scan(&i.ID, &i.Name, &i.Style, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTemplate = `
DELETE FROM templates WHERE id = ?
`

// DeleteTemplate removes a template and reports how many rows were deleted.
func (q *Queries) DeleteTemplate(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTemplate, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
