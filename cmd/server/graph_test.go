package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (s *ServerTestSuite) Test_SubmitGraphTests() {
	tests := []struct {
		name           string
		auth           *clientAuth
		bodyTester     func(t *testing.T, body map[string]any)
		payload        string
		expectedStatus int
	}{
		{
			name: "Valid",
			auth: &clientAuth{id: clientFullID, token: authToken},
			payload: `{
				"name": "fetch and summarize",
				"description": "fetches a page then summarizes it",
				"nodes": [
					{"block_id": "http_fetch", "constant_input": {"url": "https://example.com"}},
					{"block_id": "summarize", "metadata": {"x": 1, "y": 2}}
				]
			}`,
			expectedStatus: http.StatusOK,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, "id", "contains id key")
				assert.Equal(t, "fetch and summarize", body["name"])
				assert.Equal(t, true, body["is_active"])
				assert.Len(t, body["nodes"], 2)
			},
		},
		{
			name:           "ValidGraphsOnlyClient",
			auth:           &clientAuth{id: clientGraphsID, token: authToken},
			payload:        `{"name": "tiny", "nodes": [{"block_id": "noop"}]}`,
			expectedStatus: http.StatusOK,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, "id", "contains id key")
				assert.Len(t, body["nodes"], 1)
			},
		},
		{
			name:           "InvalidMissingName",
			auth:           &clientAuth{id: clientFullID, token: authToken},
			payload:        `{"nodes": [{"block_id": "noop"}]}`,
			expectedStatus: http.StatusBadRequest,
			bodyTester:     validationBodyTester,
		},
		{
			name:           "InvalidNoNodes",
			auth:           &clientAuth{id: clientFullID, token: authToken},
			payload:        `{"name": "empty"}`,
			expectedStatus: http.StatusBadRequest,
			bodyTester:     validationBodyTester,
		},
		{
			name:           "InvalidMissingBlockID",
			auth:           &clientAuth{id: clientFullID, token: authToken},
			payload:        `{"name": "blockless", "nodes": [{"constant_input": {}}]}`,
			expectedStatus: http.StatusBadRequest,
			bodyTester:     validationBodyTester,
		},
		{
			name: "InvalidConstantInputTooLarge",
			auth: &clientAuth{id: clientFullID, token: authToken},
			payload: fmt.Sprintf(
				`{"name": "oversized", "nodes": [{"block_id": "noop", "constant_input": {"data": "%s"}}]}`,
				longString(1<<16),
			),
			expectedStatus: http.StatusBadRequest,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, "message", "contains message key")
				assert.Contains(t, body["message"], "constant_input too large")
			},
		},
		{
			name:           "InvalidNoPermission",
			auth:           &clientAuth{id: clientNoPermsID, token: authToken},
			payload:        `{"name": "denied", "nodes": [{"block_id": "noop"}]}`,
			expectedStatus: http.StatusUnauthorized,
			bodyTester:     unauthorizedBodyTester,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req, err := http.NewRequest(
				http.MethodPost,
				fmt.Sprintf("%s/v1/graph/", s.server.URL),
				strings.NewReader(tt.payload),
			)
			s.Require().NoError(err, "failed to construct http request")

			req.Header.Add("Content-Type", "application/json")

			if tt.auth != nil {
				req.SetBasicAuth(tt.auth.id, tt.auth.token)
			}

			resp, err := doRequest(s.T(), req)
			s.Require().NoError(err)

			s.Equal(tt.expectedStatus, resp.code, "incorrect status code")
			body := make(map[string]any)
			s.Require().NoError(json.Unmarshal([]byte(resp.body), &body))

			tt.bodyTester(s.T(), body)
		})
	}
}

func (s *ServerTestSuite) Test_GetGraphTests() {
	tests := []struct {
		name           string
		auth           *clientAuth
		bodyTester     func(t *testing.T, body map[string]any)
		graphID        string
		expectedStatus int
	}{
		{
			name:           "Valid",
			graphID:        graphActive.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusOK,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Equal(t, graphActive.ID.String(), body["id"])
				assert.Equal(t, "resize and caption", body["name"])
				assert.Equal(t, true, body["is_active"])
				assert.Len(t, body["nodes"], 2)
			},
		},
		{
			name:           "ValidInactive",
			graphID:        graphInactive.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusOK,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Equal(t, graphInactive.ID.String(), body["id"])
				assert.Equal(t, false, body["is_active"])
			},
		},
		{
			name:           "InvalidUnknownID",
			graphID:        uuid.New().String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusNotFound,
			bodyTester:     notFoundBodyTester,
		},
		{
			name:           "InvalidMalformedID",
			graphID:        "foobar",
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusNotFound,
			bodyTester:     notFoundBodyTester,
		},
		{
			name:           "InvalidNoPermission",
			graphID:        graphActive.ID.String(),
			auth:           &clientAuth{id: clientNoPermsID, token: authToken},
			expectedStatus: http.StatusUnauthorized,
			bodyTester:     unauthorizedBodyTester,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req, err := http.NewRequest(
				http.MethodGet,
				fmt.Sprintf("%s/v1/graph/%s/", s.server.URL, tt.graphID),
				nil,
			)
			s.Require().NoError(err, "failed to construct http request")

			if tt.auth != nil {
				req.SetBasicAuth(tt.auth.id, tt.auth.token)
			}

			resp, err := doRequest(s.T(), req)
			s.Require().NoError(err)

			s.Equal(tt.expectedStatus, resp.code, "incorrect status code")
			body := make(map[string]any)
			s.Require().NoError(json.Unmarshal([]byte(resp.body), &body))

			tt.bodyTester(s.T(), body)
		})
	}
}

func (s *ServerTestSuite) Test_DeactivateGraphTests() {
	tests := []struct {
		name           string
		auth           *clientAuth
		bodyTester     func(t *testing.T, body map[string]any)
		graphID        string
		expectedStatus int
	}{
		{
			name:           "InvalidUnknownID",
			graphID:        uuid.New().String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusNotFound,
			bodyTester:     notFoundBodyTester,
		},
		{
			name:           "InvalidNoPermission",
			graphID:        graphActive.ID.String(),
			auth:           &clientAuth{id: clientNoPermsID, token: authToken},
			expectedStatus: http.StatusUnauthorized,
			bodyTester:     unauthorizedBodyTester,
		},
		{
			name:           "Valid",
			graphID:        graphActive.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusNoContent,
			bodyTester: func(_ *testing.T, _ map[string]any) {
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req, err := http.NewRequest(
				http.MethodDelete,
				fmt.Sprintf("%s/v1/graph/%s/", s.server.URL, tt.graphID),
				nil,
			)
			s.Require().NoError(err, "failed to construct http request")

			if tt.auth != nil {
				req.SetBasicAuth(tt.auth.id, tt.auth.token)
			}

			resp, err := doRequest(s.T(), req)
			s.Require().NoError(err)

			s.Equal(tt.expectedStatus, resp.code, "incorrect status code")
			if resp.code == http.StatusNoContent {
				return
			}

			body := make(map[string]any)
			s.Require().NoError(json.Unmarshal([]byte(resp.body), &body))

			tt.bodyTester(s.T(), body)
		})
	}
}
