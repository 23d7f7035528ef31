package webtest

import "regexp"

const locationHeader = "Location"

// AssertRedirect fails unless the last response has a Location header.
func (c *Case) AssertRedirect() {
	c.helper()
	c.report(c.checkRedirect())
}

// AssertNotRedirect fails if the last response has a Location header.
func (c *Case) AssertNotRedirect() {
	c.helper()
	c.report(c.checkNotRedirect())
}

// AssertRedirectTo fails unless the last response redirects to exactly url.
func (c *Case) AssertRedirectTo(url string) {
	c.helper()
	c.report(c.checkRedirectTo(url))
}

// AssertNotRedirectTo fails unless the last response redirects somewhere other than url.
func (c *Case) AssertNotRedirectTo(url string) {
	c.helper()
	c.report(c.checkNotRedirectTo(url))
}

// AssertRedirectRegex fails unless the last response redirects to a URL matching pattern.
func (c *Case) AssertRedirectRegex(pattern string) {
	c.helper()
	c.report(c.checkRedirectRegex(pattern))
}

// AssertNotRedirectRegex fails unless the last response redirects to a URL not matching
// pattern.
func (c *Case) AssertNotRedirectRegex(pattern string) {
	c.helper()
	c.report(c.checkNotRedirectRegex(pattern))
}

func (c *Case) checkRedirect() error {
	_, ok, err := c.header("AssertRedirect", locationHeader)
	if err != nil {
		return err
	}
	if !ok {
		return fail("AssertRedirect", nil, nil, `Failed asserting response is a redirect`)
	}
	return nil
}

func (c *Case) checkNotRedirect() error {
	location, ok, err := c.header("AssertNotRedirect", locationHeader)
	if err != nil {
		return err
	}
	if ok {
		return fail("AssertNotRedirect", nil, location,
			`Failed asserting response is a redirect, actual redirection is "%s"`, location)
	}
	return nil
}

// location returns the redirect target; a missing or empty Location is a failure.
func (c *Case) location(caller string) (string, error) {
	location, ok, err := c.header(caller, locationHeader)
	if err != nil {
		return "", err
	}
	if !ok || location == "" {
		return "", fail(caller, nil, nil, `Failed asserting response is a redirect`)
	}
	return location, nil
}

func (c *Case) checkRedirectTo(url string) error {
	location, err := c.location("AssertRedirectTo")
	if err != nil {
		return err
	}
	if location != url {
		return fail("AssertRedirectTo", url, location,
			`Failed asserting response redirects to "%s", actual redirection is "%s"`, url, location)
	}
	return nil
}

func (c *Case) checkNotRedirectTo(url string) error {
	location, err := c.location("AssertNotRedirectTo")
	if err != nil {
		return err
	}
	if location == url {
		return fail("AssertNotRedirectTo", url, location,
			`Failed asserting response redirects to "%s"`, url)
	}
	return nil
}

func (c *Case) checkRedirectRegex(pattern string) error {
	location, err := c.location("AssertRedirectRegex")
	if err != nil {
		return err
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if !rx.MatchString(location) {
		return fail("AssertRedirectRegex", pattern, location,
			`Failed asserting response redirects to URL MATCHING "%s", actual redirection is "%s"`,
			pattern, location)
	}
	return nil
}

func (c *Case) checkNotRedirectRegex(pattern string) error {
	location, err := c.location("AssertNotRedirectRegex")
	if err != nil {
		return err
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if rx.MatchString(location) {
		return fail("AssertNotRedirectRegex", pattern, location,
			`Failed asserting response DOES NOT redirect to URL MATCHING "%s"`, pattern)
	}
	return nil
}
