package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rodstewart/savlink-cli/internal/models"
)

// DefaultPageSize is the page size FetchAllLinks requests.
const DefaultPageSize = 100

// LinkQuery narrows a link listing. Zero fields are not sent.
type LinkQuery struct {
	Cursor   string
	Limit    int
	Search   string
	FolderID *int
	Archived bool
}

// LinkPage is one page of a cursor-paginated link listing.
type LinkPage struct {
	Links   []models.RawLink `json:"links"`
	Cursor  string           `json:"cursor"`
	HasMore bool             `json:"has_more"`
}

type linkData struct {
	Link *models.RawLink `json:"link"`
}

type idsBody struct {
	IDs []int `json:"ids"`
}

func notFound(kind string, id int, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s with ID %d %w", kind, id, ErrNotFound)
	}
	return err
}

// GetLinks retrieves one page of links
func (c *Client) GetLinks(q LinkQuery) (*LinkPage, error) {
	params := url.Values{}
	if q.Cursor != "" {
		params.Set("cursor", q.Cursor)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	if q.FolderID != nil {
		params.Set("folder_id", strconv.Itoa(*q.FolderID))
	}
	if q.Archived {
		params.Set("archived", "true")
	}

	path := "/api/links"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page LinkPage
	if err := c.call(http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchAllLinks retrieves every link, archived ones included. The server
// lists archived links only when asked, so they are fetched in a second pass
// and merged by ID.
func (c *Client) FetchAllLinks() ([]models.RawLink, error) {
	all, err := c.fetchLinkPages(LinkQuery{Limit: DefaultPageSize})
	if err != nil {
		return nil, err
	}

	archived, err := c.fetchLinkPages(LinkQuery{Limit: DefaultPageSize, Archived: true})
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(all))
	for _, l := range all {
		if l.ID != nil {
			seen[*l.ID] = true
		}
	}
	for _, l := range archived {
		if l.ID != nil && seen[*l.ID] {
			continue
		}
		all = append(all, l)
	}

	return all, nil
}

// fetchLinkPages follows the cursor until the server reports no more pages.
func (c *Client) fetchLinkPages(q LinkQuery) ([]models.RawLink, error) {
	var all []models.RawLink
	seen := map[string]bool{}

	for {
		page, err := c.GetLinks(q)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch links: %w", err)
		}

		all = append(all, page.Links...)

		if !page.HasMore || page.Cursor == "" || len(page.Links) == 0 || seen[page.Cursor] {
			break
		}
		seen[page.Cursor] = true
		q.Cursor = page.Cursor
	}

	return all, nil
}

// GetLink retrieves a single link by ID
func (c *Client) GetLink(id int) (*models.RawLink, error) {
	var data linkData
	if err := c.call(http.MethodGet, fmt.Sprintf("/api/links/%d", id), nil, &data); err != nil {
		return nil, notFound("link", id, err)
	}
	return unwrapLink(data)
}

// CreateLink creates a new link
func (c *Client) CreateLink(create *models.LinkCreate) (*models.RawLink, error) {
	var data linkData
	if err := c.call(http.MethodPost, "/api/links", create, &data); err != nil {
		return nil, err
	}
	return unwrapLink(data)
}

// UpdateLink updates an existing link
func (c *Client) UpdateLink(id int, patch *models.LinkPatch) (*models.RawLink, error) {
	var data linkData
	if err := c.call(http.MethodPut, fmt.Sprintf("/api/links/%d", id), patch, &data); err != nil {
		return nil, notFound("link", id, err)
	}
	return unwrapLink(data)
}

// DeleteLink deletes a link
func (c *Client) DeleteLink(id int) error {
	return notFound("link", id, c.call(http.MethodDelete, fmt.Sprintf("/api/links/%d", id), nil, nil))
}

// PinLink pins a link
func (c *Client) PinLink(id int) error {
	return c.linkAction(http.MethodPost, id, "pin")
}

// UnpinLink unpins a link
func (c *Client) UnpinLink(id int) error {
	return c.linkAction(http.MethodDelete, id, "pin")
}

// ArchiveLink archives a link
func (c *Client) ArchiveLink(id int) error {
	return c.linkAction(http.MethodPost, id, "archive")
}

// RestoreLink takes a link out of the archive
func (c *Client) RestoreLink(id int) error {
	return c.linkAction(http.MethodDelete, id, "archive")
}

func (c *Client) linkAction(method string, id int, action string) error {
	err := c.call(method, fmt.Sprintf("/api/links/%d/%s", id, action), nil, nil)
	return notFound("link", id, err)
}

// BulkDelete deletes several links in one request
func (c *Client) BulkDelete(ids []int) error {
	return c.call(http.MethodPost, "/api/links/bulk/delete", idsBody{IDs: ids}, nil)
}

// BulkArchive archives several links in one request
func (c *Client) BulkArchive(ids []int) error {
	return c.call(http.MethodPost, "/api/links/bulk/archive", idsBody{IDs: ids}, nil)
}

func unwrapLink(data linkData) (*models.RawLink, error) {
	if data.Link == nil {
		return nil, fmt.Errorf("failed to decode response: missing link")
	}
	return data.Link, nil
}
