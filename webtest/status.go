package webtest

// AssertResponseStatus fails unless the last response has the given status code.
func (c *Case) AssertResponseStatus(code int) {
	c.helper()
	c.report(c.checkResponseStatus(code))
}

// AssertNotResponseStatus fails if the last response has the given status code.
func (c *Case) AssertNotResponseStatus(code int) {
	c.helper()
	c.report(c.checkNotResponseStatus(code))
}

func (c *Case) checkResponseStatus(code int) error {
	resp, err := c.response("AssertResponseStatus")
	if err != nil {
		return err
	}
	if resp.StatusCode != code {
		return fail("AssertResponseStatus", code, resp.StatusCode,
			`Failed asserting that code "%d", actual status code is "%d"`, code, resp.StatusCode)
	}
	return nil
}

func (c *Case) checkNotResponseStatus(code int) error {
	resp, err := c.response("AssertNotResponseStatus")
	if err != nil {
		return err
	}
	if resp.StatusCode == code {
		return fail("AssertNotResponseStatus", code, resp.StatusCode,
			`Failed asserting response code was NOT "%d"`, code)
	}
	return nil
}
