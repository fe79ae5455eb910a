package mint

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	errmsg "github.com/webmint/mint-go-cli/internal/errors"
)

// managedDeveloper is the generic developer record of the management API.
// The platform stores extended monetization fields as a flat attribute bag
// on this record, not as first-class JSON fields, so Developer.Save projects
// onto it instead of sending the typed entity.
type managedDeveloper struct {
	client *Client
	id     string

	raw        map[string]interface{}
	attributes map[string]string
}

func newManagedDeveloper(id string, client *Client) *managedDeveloper {
	return &managedDeveloper{
		client:     client,
		id:         id,
		raw:        map[string]interface{}{},
		attributes: map[string]string{},
	}
}

// load fetches the management developer record and indexes its attribute bag
func (m *managedDeveloper) load(ctx context.Context) error {
	base := m.client.config.BaseURL + managementBasePath(m.client.config.Organization)
	return m.client.withBaseURL(base, func() error {
		req := m.client.http.R().
			SetContext(ctx).
			SetResult(&m.raw)
		m.client.setAuth(req)

		resp, err := req.Get("/" + buildPath(m.id))
		if err != nil {
			return fmt.Errorf("%s: %w", errmsg.MsgFailedToLoadDeveloper, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return m.client.handleError(resp, nil)
		}

		m.attributes = map[string]string{}
		if attrs, ok := m.raw["attributes"].([]interface{}); ok {
			for _, entry := range attrs {
				attr, ok := entry.(map[string]interface{})
				if !ok {
					continue
				}
				name, _ := attr["name"].(string)
				value, _ := attr["value"].(string)
				if name != "" {
					m.attributes[name] = value
				}
			}
		}
		return nil
	})
}

func (m *managedDeveloper) setAttribute(name, value string) {
	m.attributes[name] = value
}

// save writes the record back with the merged attribute bag. Attributes are
// serialized in name order so repeated saves produce identical payloads.
func (m *managedDeveloper) save(ctx context.Context) error {
	names := make([]string, 0, len(m.attributes))
	for name := range m.attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]map[string]string, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, map[string]string{"name": name, "value": m.attributes[name]})
	}
	m.raw["attributes"] = attrs

	base := m.client.config.BaseURL + managementBasePath(m.client.config.Organization)
	return m.client.withBaseURL(base, func() error {
		req := m.client.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(m.raw)
		m.client.setAuth(req)

		resp, err := req.Post("/" + buildPath(m.id))
		if err != nil {
			return fmt.Errorf("%s: %w", errmsg.MsgFailedToSaveDeveloper, err)
		}
		if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
			return m.client.handleError(resp, nil)
		}
		return nil
	})
}
