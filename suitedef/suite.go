// Package suitedef contains the JSON definition of a smoke suite: a list of requests to send
// to a running application and the assertions to make on each response.
//
//	{
//	  "name": "demo",
//	  "cases": [
//	    {
//	      "name": "home page",
//	      "request": {"path": "/"},
//	      "status": 200,
//	      "checks": [
//	        {"assert": "AssertController", "args": ["DefaultController"]},
//	        {"assert": "AssertElementCount", "args": ["li", 3]}
//	      ]
//	    }
//	  ]
//	}
package suitedef

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type Suite struct {
	Name string `json:"name"`
	// BaseURL is used when the command line does not give one.
	BaseURL string            `json:"baseUrl,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Cases   []Case            `json:"cases"`
}

type Case struct {
	Name    string  `json:"name"`
	Request Request `json:"request"`
	// Status is a shorthand for an AssertResponseStatus check.
	Status ldvalue.OptionalInt `json:"status,omitempty"`
	Checks []Check             `json:"checks,omitempty"`
}

type Request struct {
	Method          string              `json:"method,omitempty"`
	Path            string              `json:"path"`
	Params          map[string]string   `json:"params,omitempty"`
	Headers         map[string]string   `json:"headers,omitempty"`
	Body            string              `json:"body,omitempty"`
	BasicAuth       *BasicAuth          `json:"basicAuth,omitempty"`
	FollowRedirects bool                `json:"followRedirects,omitempty"`
	MaxRedirects    ldvalue.OptionalInt `json:"maxRedirects,omitempty"`
}

type BasicAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Check names an assertion and its arguments. Arguments may be JSON strings, numbers or
// booleans.
type Check struct {
	Assert string          `json:"assert"`
	Args   []ldvalue.Value `json:"args,omitempty"`
}

// Arguments returns the arguments as strings.
func (c Check) Arguments() []string {
	ret := make([]string, 0, len(c.Args))
	for _, v := range c.Args {
		switch v.Type() {
		case ldvalue.StringType:
			ret = append(ret, v.StringValue())
		case ldvalue.NumberType:
			if v.IsInt() {
				ret = append(ret, strconv.Itoa(v.IntValue()))
			} else {
				ret = append(ret, strconv.FormatFloat(v.Float64Value(), 'f', -1, 64))
			}
		case ldvalue.BoolType:
			ret = append(ret, strconv.FormatBool(v.BoolValue()))
		default:
			ret = append(ret, v.JSONString())
		}
	}
	return ret
}

// Parse decodes and validates a suite definition.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid suite JSON: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a suite definition from a file.
func Load(path string) (*Suite, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read suite file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks that every case can be run.
func (s *Suite) Validate() error {
	if s.Name == "" {
		return errors.New("suite has no name")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("suite %q has no cases", s.Name)
	}
	names := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case #%d has no name", i+1)
		}
		if names[c.Name] {
			return fmt.Errorf("duplicate case name %q", c.Name)
		}
		names[c.Name] = true
		if c.Request.Path == "" {
			return fmt.Errorf("case %q has no request path", c.Name)
		}
		for j, check := range c.Checks {
			if check.Assert == "" {
				return fmt.Errorf("check #%d of case %q has no assertion name", j+1, c.Name)
			}
		}
	}
	return nil
}
