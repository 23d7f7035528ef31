package webtest

import (
	"errors"

	"github.com/dayax/webtest/routing"
)

var (
	errNoEntityManager = errors.New(
		"Can not get Entity Manager, be sure that you have configured one with webtest.WithEntityManager")
	errNoURLGenerator = errors.New("no URL generator was configured; use webtest.WithURLGenerator")
)

// LogIn makes every following request carry HTTP basic credentials.
func (c *Case) LogIn(username, password string) {
	c.client.SetBasicAuth(username, password)
}

// GenerateURL builds the URL of a named route with the configured URLGenerator.
func (c *Case) GenerateURL(name string, params map[string]string, ref routing.ReferenceType) (string, error) {
	if c.urls == nil {
		return "", errNoURLGenerator
	}
	return c.urls.GenerateURL(name, params, ref)
}

// RemoveEntity deletes every entity of the given kind whose field equals value, flushing
// after each removal.
func (c *Case) RemoveEntity(kind, field string, value interface{}) error {
	if c.entities == nil {
		return errNoEntityManager
	}
	found, err := c.entities.FindBy(c.ctx, kind, field, value)
	if err != nil {
		return err
	}
	for _, entity := range found {
		if err := c.entities.Remove(entity); err != nil {
			return err
		}
		if err := c.entities.Flush(c.ctx); err != nil {
			return err
		}
	}
	return nil
}
