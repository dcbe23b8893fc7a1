package mcp

import (
	"context"
	"encoding/json"

	"github.com/Yehuda-sh/GYMovoo-v1-sub000/internal/equipment"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) exerciseCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.catalog.Exercises())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// vocabularyEntry is one canonical tag and its ordered fallbacks.
type vocabularyEntry struct {
	Tag         equipment.Tag   `json:"tag"`
	Substitutes []equipment.Tag `json:"substitutes"`
}

func (h *handlers) equipmentVocabulary(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tags := equipment.All()
	entries := make([]vocabularyEntry, 0, len(tags))
	for _, t := range tags {
		entries = append(entries, vocabularyEntry{Tag: t, Substitutes: equipment.Substitutes(t)})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
