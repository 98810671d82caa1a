package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rodstewart/savlink-cli/internal/models"
)

type tagData struct {
	Tag *models.RawTag `json:"tag"`
}

// FetchAllTags retrieves every tag with its usage count.
func (c *Client) FetchAllTags() ([]models.RawTag, error) {
	var data struct {
		Tags []models.RawTag `json:"tags"`
	}
	if err := c.call(http.MethodGet, "/api/tags", nil, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}
	return data.Tags, nil
}

// CreateTag creates a new tag
func (c *Client) CreateTag(create *models.TagCreate) (*models.RawTag, error) {
	var data tagData
	err := c.call(http.MethodPost, "/api/tags", create, &data)
	if err != nil {
		var apiErr *APIError
		conflict := errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
		if conflict || strings.Contains(err.Error(), "already exists") {
			return nil, fmt.Errorf("tag '%s' already exists", create.Name)
		}
		return nil, err
	}
	if data.Tag == nil {
		return nil, fmt.Errorf("failed to decode response: missing tag")
	}
	return data.Tag, nil
}

// UpdateTag renames or recolors a tag
func (c *Client) UpdateTag(id int, patch *models.TagPatch) (*models.RawTag, error) {
	var data tagData
	if err := c.call(http.MethodPut, fmt.Sprintf("/api/tags/%d", id), patch, &data); err != nil {
		return nil, notFound("tag", id, err)
	}
	if data.Tag == nil {
		return nil, fmt.Errorf("failed to decode response: missing tag")
	}
	return data.Tag, nil
}

// DeleteTag deletes a tag
func (c *Client) DeleteTag(id int) error {
	return notFound("tag", id, c.call(http.MethodDelete, fmt.Sprintf("/api/tags/%d", id), nil, nil))
}
