package api

import (
	"fmt"
	"net/http"

	"github.com/rodstewart/savlink-cli/internal/models"
)

type folderData struct {
	Folder *models.RawFolder `json:"folder"`
}

// FetchAllFolders retrieves every folder, soft-deleted ones included.
func (c *Client) FetchAllFolders() ([]models.RawFolder, error) {
	var data struct {
		Folders []models.RawFolder `json:"folders"`
	}
	if err := c.call(http.MethodGet, "/api/folders?include_deleted=true", nil, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch folders: %w", err)
	}
	return data.Folders, nil
}

// CreateFolder creates a new folder
func (c *Client) CreateFolder(create *models.FolderCreate) (*models.RawFolder, error) {
	var data folderData
	if err := c.call(http.MethodPost, "/api/folders", create, &data); err != nil {
		return nil, err
	}
	return unwrapFolder(data)
}

// UpdateFolder updates an existing folder
func (c *Client) UpdateFolder(id int, patch *models.FolderPatch) (*models.RawFolder, error) {
	var data folderData
	if err := c.call(http.MethodPut, fmt.Sprintf("/api/folders/%d", id), patch, &data); err != nil {
		return nil, notFound("folder", id, err)
	}
	return unwrapFolder(data)
}

// DeleteFolder soft-deletes a folder
func (c *Client) DeleteFolder(id int) error {
	return notFound("folder", id, c.call(http.MethodDelete, fmt.Sprintf("/api/folders/%d", id), nil, nil))
}

// RestoreFolder undoes a soft delete
func (c *Client) RestoreFolder(id int) error {
	return notFound("folder", id, c.call(http.MethodPost, fmt.Sprintf("/api/folders/%d/restore", id), nil, nil))
}

// MoveFolder re-parents a folder. A nil parentID moves it to the root.
func (c *Client) MoveFolder(id int, parentID *int) error {
	body := struct {
		ParentID *int `json:"parent_id"`
	}{ParentID: parentID}
	return notFound("folder", id, c.call(http.MethodPost, fmt.Sprintf("/api/folders/%d/move", id), body, nil))
}

func unwrapFolder(data folderData) (*models.RawFolder, error) {
	if data.Folder == nil {
		return nil, fmt.Errorf("failed to decode response: missing folder")
	}
	return data.Folder, nil
}
