package webtest

import "regexp"

// AssertHasResponseHeader fails unless the last response has the header.
func (c *Case) AssertHasResponseHeader(header string) {
	c.helper()
	c.report(c.checkHasResponseHeader(header))
}

// AssertNotHasResponseHeader fails if the last response has the header.
func (c *Case) AssertNotHasResponseHeader(header string) {
	c.helper()
	c.report(c.checkNotHasResponseHeader(header))
}

// AssertResponseHeaderContains fails unless the header exists and its first value is
// exactly match.
func (c *Case) AssertResponseHeaderContains(header, match string) {
	c.helper()
	c.report(c.checkResponseHeaderContains(header, match))
}

// AssertNotResponseHeaderContains fails unless the header exists and its first value is
// not exactly match.
func (c *Case) AssertNotResponseHeaderContains(header, match string) {
	c.helper()
	c.report(c.checkNotResponseHeaderContains(header, match))
}

// AssertResponseHeaderRegex fails unless the header exists and matches pattern.
func (c *Case) AssertResponseHeaderRegex(header, pattern string) {
	c.helper()
	c.report(c.checkResponseHeaderRegex(header, pattern))
}

// AssertNotResponseHeaderRegex fails unless the header exists and does not match pattern.
func (c *Case) AssertNotResponseHeaderRegex(header, pattern string) {
	c.helper()
	c.report(c.checkNotResponseHeaderRegex(header, pattern))
}

func (c *Case) header(caller, header string) (string, bool, error) {
	resp, err := c.response(caller)
	if err != nil {
		return "", false, err
	}
	value, ok := resp.HeaderValue(header)
	return value, ok, nil
}

// nonEmptyHeader is header for the assertions that need a value: an empty header counts as
// a missing one.
func (c *Case) nonEmptyHeader(caller, header string) (string, error) {
	value, ok, err := c.header(caller, header)
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return "", fail(caller, header, nil,
			`Failed asserting response header, header "%s" do not exists`, header)
	}
	return value, nil
}

func (c *Case) checkHasResponseHeader(header string) error {
	_, ok, err := c.header("AssertHasResponseHeader", header)
	if err != nil {
		return err
	}
	if !ok {
		return fail("AssertHasResponseHeader", header, nil,
			`Failed asserting response header "%s" found`, header)
	}
	return nil
}

func (c *Case) checkNotHasResponseHeader(header string) error {
	value, ok, err := c.header("AssertNotHasResponseHeader", header)
	if err != nil {
		return err
	}
	if ok {
		return fail("AssertNotHasResponseHeader", nil, value,
			`Failed asserting that response header "%s" was not found`, header)
	}
	return nil
}

func (c *Case) checkResponseHeaderContains(header, match string) error {
	value, err := c.nonEmptyHeader("AssertResponseHeaderContains", header)
	if err != nil {
		return err
	}
	if value != match {
		return fail("AssertResponseHeaderContains", match, value,
			`Failed asserting that response header for "%s" contains "%s". Actual content is "%s"`,
			header, match, value)
	}
	return nil
}

func (c *Case) checkNotResponseHeaderContains(header, match string) error {
	value, err := c.nonEmptyHeader("AssertNotResponseHeaderContains", header)
	if err != nil {
		return err
	}
	if value == match {
		return fail("AssertNotResponseHeaderContains", match, value,
			`Failed asserting response header "%s" does not contain "%s"`, header, match)
	}
	return nil
}

func (c *Case) checkResponseHeaderRegex(header, pattern string) error {
	value, err := c.nonEmptyHeader("AssertResponseHeaderRegex", header)
	if err != nil {
		return err
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if !rx.MatchString(value) {
		return fail("AssertResponseHeaderRegex", pattern, value,
			`Failed asserting response header "%s" exists and matches regex "%s", actual content is "%s"`,
			header, pattern, value)
	}
	return nil
}

func (c *Case) checkNotResponseHeaderRegex(header, pattern string) error {
	value, err := c.nonEmptyHeader("AssertNotResponseHeaderRegex", header)
	if err != nil {
		return err
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if rx.MatchString(value) {
		return fail("AssertNotResponseHeaderRegex", pattern, value,
			`Failed asserting response header "%s" does not match regex "%s"`, header, pattern)
	}
	return nil
}
