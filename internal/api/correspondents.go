package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rodstewart/paperless-cli/internal/models"
)

// CorrespondentFilter narrows a correspondent listing.
type CorrespondentFilter struct {
	// NameContains matches names containing the string, ignoring case.
	NameContains string
}

func (f CorrespondentFilter) path() string {
	path := "/api/correspondents/"
	if f.NameContains == "" {
		return path
	}
	params := url.Values{}
	params.Set("name__icontains", f.NameContains)
	return path + "?" + params.Encode()
}

// Correspondents retrieves every correspondent matching filter, following pagination.
func (c *Client) Correspondents(ctx context.Context, filter CorrespondentFilter) ([]models.Correspondent, error) {
	correspondents, err := collect[models.Correspondent](ctx, c, filter.path())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch correspondents: %w", err)
	}
	return correspondents, nil
}

// Correspondent retrieves a single correspondent by ID
func (c *Client) Correspondent(ctx context.Context, id int) (*models.Correspondent, error) {
	var correspondent models.Correspondent
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/correspondents/%d/", c.baseURL, id), &correspondent); err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("correspondent with ID %d not found: %w", id, err)
		}
		return nil, err
	}
	return &correspondent, nil
}

// CorrespondentForName finds the correspondent whose name equals name,
// ignoring case.
func (c *Client) CorrespondentForName(ctx context.Context, name string) (*models.Correspondent, error) {
	correspondents, err := c.Correspondents(ctx, CorrespondentFilter{NameContains: name})
	if err != nil {
		return nil, err
	}

	for i := range correspondents {
		if strings.EqualFold(correspondents[i].Name, name) {
			return &correspondents[i], nil
		}
	}

	return nil, &Error{Kind: KindUnknownCorrespondent, Message: fmt.Sprintf("no correspondent named %q", name)}
}

// DeleteCorrespondent deletes a correspondent
func (c *Client) DeleteCorrespondent(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/correspondents/%d/", id)

	resp, err := c.Delete(ctx, path)
	if err != nil {
		if errors.Is(err, ErrDryRun) {
			return c.noOp(http.MethodDelete, path)
		}
		if StatusCode(err) == http.StatusNotFound {
			return fmt.Errorf("correspondent with ID %d not found: %w", id, err)
		}
		return err
	}
	resp.Body.Close()

	return nil
}
