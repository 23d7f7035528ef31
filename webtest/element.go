package webtest

import (
	"regexp"
	"strings"

	"github.com/dayax/webtest/dom"
)

// AssertHasElement fails unless selector matches at least one node.
func (c *Case) AssertHasElement(selector string) {
	c.helper()
	c.report(c.checkHasElement(selector))
}

// AssertNotHasElement fails if selector matches any node.
func (c *Case) AssertNotHasElement(selector string) {
	c.helper()
	c.report(c.checkNotHasElement(selector))
}

// AssertElementCount fails unless selector matches exactly count nodes.
func (c *Case) AssertElementCount(selector string, count int) {
	c.helper()
	c.report(c.checkElementCount(selector, count))
}

// AssertNotElementCount fails if selector matches exactly count nodes.
func (c *Case) AssertNotElementCount(selector string, count int) {
	c.helper()
	c.report(c.checkNotElementCount(selector, count))
}

// AssertElementContains fails unless the text of the matched nodes contains match.
func (c *Case) AssertElementContains(selector, match string) {
	c.helper()
	c.report(c.checkElementContains(selector, match))
}

// AssertNotElementContains fails unless the matched nodes exist and their text does not
// contain match.
func (c *Case) AssertNotElementContains(selector, match string) {
	c.helper()
	c.report(c.checkNotElementContains(selector, match))
}

// AssertElementContentRegex fails unless the text of the matched nodes matches pattern.
func (c *Case) AssertElementContentRegex(selector, pattern string) {
	c.helper()
	c.report(c.checkElementContentRegex(selector, pattern))
}

// AssertNotElementContentRegex fails unless the matched nodes exist and their text does not
// match pattern.
func (c *Case) AssertNotElementContentRegex(selector, pattern string) {
	c.helper()
	c.report(c.checkNotElementContentRegex(selector, pattern))
}

// filter treats selectors starting with a slash as XPath and any other selector as CSS.
func (c *Case) filter(caller, selector string) (*dom.NodeSet, error) {
	crawler, err := c.crawler(caller)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(selector, "/") {
		return crawler.FilterXPath(selector)
	}
	return crawler.Filter(selector)
}

func (c *Case) count(caller, selector string) (int, error) {
	nodes, err := c.filter(caller, selector)
	if err != nil {
		return 0, err
	}
	return nodes.Count(), nil
}

// text returns the concatenated text of the matched nodes; no match is a failure.
func (c *Case) text(caller, selector string) (string, error) {
	nodes, err := c.filter(caller, selector)
	if err != nil {
		return "", err
	}
	if nodes.Count() == 0 {
		return "", fail(caller, selector, nil, `Failed asserting node DENOTED BY "%s" EXISTS`, selector)
	}
	return nodes.Text(), nil
}

func (c *Case) checkHasElement(selector string) error {
	n, err := c.count("AssertHasElement", selector)
	if err != nil {
		return err
	}
	if n <= 0 {
		return fail("AssertHasElement", selector, n,
			`Failed asserting that element with "%s" selector is exist.`, selector)
	}
	return nil
}

func (c *Case) checkNotHasElement(selector string) error {
	n, err := c.count("AssertNotHasElement", selector)
	if err != nil {
		return err
	}
	if n != 0 {
		return fail("AssertNotHasElement", selector, n,
			`Failed asserting that element with "%s" selector is exist.`, selector)
	}
	return nil
}

func (c *Case) checkElementCount(selector string, count int) error {
	n, err := c.count("AssertElementCount", selector)
	if err != nil {
		return err
	}
	if n != count {
		return fail("AssertElementCount", count, n,
			`Failed asserting that current response contain "%s" element, with "%d" count. Actual element count is "%d"`,
			selector, count, n)
	}
	return nil
}

func (c *Case) checkNotElementCount(selector string, count int) error {
	n, err := c.count("AssertNotElementCount", selector)
	if err != nil {
		return err
	}
	if n == count {
		return fail("AssertNotElementCount", count, n,
			`Failed asserting node DENOTED BY "%s" DOES NOT OCCUR EXACTLY "%d" times`, selector, count)
	}
	return nil
}

func (c *Case) checkElementContains(selector, match string) error {
	text, err := c.text("AssertElementContains", selector)
	if err != nil {
		return err
	}
	if !strings.Contains(text, match) {
		return fail("AssertElementContains", match, text,
			`Failed asserting node denoted by "%s" CONTAINS content "%s", actual content is "%s"`,
			selector, match, text)
	}
	return nil
}

func (c *Case) checkNotElementContains(selector, match string) error {
	text, err := c.text("AssertNotElementContains", selector)
	if err != nil {
		return err
	}
	if strings.Contains(text, match) {
		return fail("AssertNotElementContains", match, text,
			`Failed asserting node DENOTED BY %s DOES NOT CONTAIN content "%s"`, selector, match)
	}
	return nil
}

func (c *Case) checkElementContentRegex(selector, pattern string) error {
	text, err := c.text("AssertElementContentRegex", selector)
	if err != nil {
		return err
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if !rx.MatchString(text) {
		return fail("AssertElementContentRegex", pattern, text,
			`Failed asserting node denoted by "%s" CONTAINS content MATCHING "%s", actual content is "%s"`,
			selector, pattern, text)
	}
	return nil
}

func (c *Case) checkNotElementContentRegex(selector, pattern string) error {
	text, err := c.text("AssertNotElementContentRegex", selector)
	if err != nil {
		return err
	}
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if rx.MatchString(text) {
		return fail("AssertNotElementContentRegex", pattern, text,
			`Failed asserting node DENOTED BY "%s" DOES NOT CONTAIN content MATCHING "%s", actual content is "%s"`,
			selector, pattern, text)
	}
	return nil
}
