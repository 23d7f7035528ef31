// Package webtest provides guarded assertions for request/response tests of web
// applications.
//
// A Case wraps a client.Client. Open dispatches a request; every assertion then checks the
// last response, its parsed document or the route that handled it, and reports a failure
// with a fixed message through the TestingT the Case was created with. Calling an assertion
// before Open is a sequencing error, reported as a *PreconditionError.
//
//	c := webtest.New(t, client.NewForHandler(app))
//	c.Open("/")
//	c.AssertResponseStatus(200)
//	c.AssertController("DefaultController")
//	c.AssertElementContains("h1", "Header h1")
package webtest
