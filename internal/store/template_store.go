// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/storybook-go/internal/model"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateName     = errors.New("template name is required")
	ErrBuiltinTemplate  = errors.New("built-in templates cannot be deleted")
)

// MaxTemplateNameLength bounds saved template names.
const MaxTemplateNameLength = 100

// TemplateStore saves named styles. Built-in templates are served from
// model.PredefinedTemplates and never touch the database.
type TemplateStore struct {
	queries *Queries
	now     func() time.Time
}

// NewTemplateStore creates a template store on db.
func NewTemplateStore(db DBTX) *TemplateStore {
	return &TemplateStore{queries: New(db), now: time.Now}
}

// Save stores style under name and returns the new template.
func (s *TemplateStore) Save(ctx context.Context, name string, style model.Style) (model.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Template{}, ErrTemplateName
	}
	if len([]rune(name)) > MaxTemplateNameLength {
		return model.Template{}, fmt.Errorf("%w: at most %d characters", ErrTemplateName, MaxTemplateNameLength)
	}
	if err := style.Validate(); err != nil {
		return model.Template{}, err
	}

	data, err := json.Marshal(style)
	if err != nil {
		return model.Template{}, fmt.Errorf("encoding style: %w", err)
	}

	now := s.now().UTC()
	row, err := s.queries.CreateTemplate(ctx, CreateTemplateParams{
		Name:      name,
		Style:     string(data),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Template{}, fmt.Errorf("saving template: %w", err)
	}
	return toTemplate(row)
}

// List returns the built-in templates followed by saved ones, oldest first.
func (s *TemplateStore) List(ctx context.Context) ([]model.Template, error) {
	rows, err := s.queries.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	out := model.PredefinedTemplates()
	for _, row := range rows {
		t, err := toTemplate(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Get returns the template with id, built-in or saved.
func (s *TemplateStore) Get(ctx context.Context, id int64) (model.Template, error) {
	if id < 0 {
		if t, ok := model.PredefinedTemplate(id); ok {
			return t, nil
		}
		return model.Template{}, ErrTemplateNotFound
	}

	row, err := s.queries.GetTemplate(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Template{}, ErrTemplateNotFound
	}
	if err != nil {
		return model.Template{}, fmt.Errorf("loading template: %w", err)
	}
	return toTemplate(row)
}

// Delete removes a saved template.
func (s *TemplateStore) Delete(ctx context.Context, id int64) error {
	if id < 0 {
		return ErrBuiltinTemplate
	}
	n, err := s.queries.DeleteTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func toTemplate(row Template) (model.Template, error) {
	var style model.Style
	if err := json.Unmarshal([]byte(row.Style), &style); err != nil {
		return model.Template{}, fmt.Errorf("decoding template %d: %w", row.ID, err)
	}
	return model.Template{
		ID:        row.ID,
		Name:      row.Name,
		Style:     style,
		CreatedAt: row.CreatedAt,
	}, nil
}
