// Package testutil provides utility functions for testing HTTP handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serve(body interface{}, authToken string, r http.Handler, endpoint string, method string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}

	req, _ := http.NewRequest(method, endpoint, reader)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// MakeJSONRequest is a helper function for making JSON requests in tests.
// An empty authToken sends no Authorization header.
func MakeJSONRequest(body gin.H, authToken string, r http.Handler, endpoint string, method string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var payload interface{}
	if body != nil {
		payload = body
	}
	rec := serve(payload, authToken, r, endpoint, method)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// MakeJSONListRequest is MakeJSONRequest for endpoints answering with a JSON array
func MakeJSONListRequest(authToken string, r http.Handler, endpoint string) (*httptest.ResponseRecorder, []map[string]interface{}) {
	rec := serve(nil, authToken, r, endpoint, http.MethodGet)

	resp := []map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// IDs collects the numeric "id" of every element of a decoded list response
func IDs(items []map[string]interface{}) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if id, ok := item["id"].(float64); ok {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// Nested walks decoded JSON objects along keys and fails the test when a step is not an object
func Nested(t *testing.T, obj map[string]interface{}, keys ...string) map[string]interface{} {
	t.Helper()
	for _, key := range keys {
		next, ok := obj[key].(map[string]interface{})
		require.True(t, ok, "%q is not an object: %v", key, obj[key])
		obj = next
	}
	return obj
}

// StringPtr is a helper function to get a pointer to a string
func StringPtr(s string) *string {
	return &s
}
