// Package handlers – submission body parsing.
//
// The website posts the contact form as JSON, but the endpoint also accepts
// form-encoded and multipart bodies so plain <form> posts (and no-JS
// fallbacks) keep working. Parsing is an ordered chain keyed off the
// Content-Type, with a last resort that tries JSON and then a query-string
// parse on whatever arrived.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxMultipartMemory bounds the in-memory portion of a multipart parse.
const maxMultipartMemory = 1 << 20

// parseSubmission extracts the submission fields from the request body as a
// generic map. Values from form-encoded bodies are strings; JSON bodies keep
// their decoded types (the validator reports non-string fields).
func parseSubmission(r *http.Request) (map[string]any, error) {
	ct := r.Header.Get("Content-Type")

	switch {
	case strings.Contains(ct, "application/json"):
		return parseJSONBody(r.Body)

	case strings.Contains(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form body: %w", err)
		}
		return valuesToMap(r.PostForm), nil

	case strings.Contains(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, fmt.Errorf("parse multipart body: %w", err)
		}
		return valuesToMap(r.PostForm), nil

	default:
		// Unknown or missing Content-Type: try JSON anyway, then fall back
		// to a query-string parse of the raw body.
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err == nil {
			return data, nil
		}
		vals, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse body: %w", err)
		}
		return valuesToMap(vals), nil
	}
}

func parseJSONBody(body io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse JSON body: %w", err)
	}
	return data, nil
}

// valuesToMap flattens url.Values to first-value-wins generic map form.
func valuesToMap(vals url.Values) map[string]any {
	out := make(map[string]any, len(vals))
	for k, vv := range vals {
		if len(vv) > 0 {
			out[k] = vv[0]
		}
	}
	return out
}
