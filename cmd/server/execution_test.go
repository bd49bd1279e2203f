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

func (s *ServerTestSuite) Test_SubmitExecutionTests() {
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
				assert.Contains(t, body, "id", "contains id key")
				assert.Equal(t, graphActive.ID.String(), body["graph_id"])
				assert.Equal(t, "queued", body["status"])
				assert.Len(t, body["node_executions"], 2)
			},
		},
		{
			name:           "InvalidInactiveGraph",
			graphID:        graphInactive.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusConflict,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, "message", "contains message key")
				assert.Contains(t, body["message"], "graph is inactive")
			},
		},
		{
			name:           "InvalidUnknownGraph",
			graphID:        uuid.New().String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusNotFound,
			bodyTester:     notFoundBodyTester,
		},
		{
			name:           "InvalidGraphsOnlyClient",
			graphID:        graphActive.ID.String(),
			auth:           &clientAuth{id: clientGraphsID, token: authToken},
			expectedStatus: http.StatusUnauthorized,
			bodyTester:     unauthorizedBodyTester,
		},
		{
			name:           "InvalidNoAuth",
			graphID:        graphActive.ID.String(),
			auth:           nil,
			expectedStatus: http.StatusUnauthorized,
			bodyTester:     unauthorizedBodyTester,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req, err := http.NewRequest(
				http.MethodPost,
				fmt.Sprintf("%s/v1/graph/%s/execution/", s.server.URL, tt.graphID),
				nil,
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

func (s *ServerTestSuite) Test_GetExecutionTests() {
	tests := []struct {
		name           string
		auth           *clientAuth
		bodyTester     func(t *testing.T, body map[string]any)
		graphID        string
		executionID    string
		expectedStatus int
	}{
		{
			name:           "Valid",
			graphID:        graphActive.ID.String(),
			executionID:    execution.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusOK,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Equal(t, execution.ID.String(), body["id"])
				assert.Equal(t, graphActive.ID.String(), body["graph_id"])
				assert.Equal(t, "queued", body["status"])
				assert.Len(t, body["node_executions"], 2)
			},
		},
		{
			name:           "ValidCompleted",
			graphID:        graphActive.ID.String(),
			executionID:    executionDone.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusOK,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Equal(t, executionDone.ID.String(), body["id"])
				assert.Equal(t, "completed", body["status"])
			},
		},
		{
			name:           "InvalidWrongGraph",
			graphID:        graphInactive.ID.String(),
			executionID:    execution.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusNotFound,
			bodyTester:     notFoundBodyTester,
		},
		{
			name:           "InvalidUnknownExecution",
			graphID:        graphActive.ID.String(),
			executionID:    uuid.New().String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusNotFound,
			bodyTester:     notFoundBodyTester,
		},
		{
			name:           "InvalidMalformedExecutionID",
			graphID:        graphActive.ID.String(),
			executionID:    "foobar",
			auth:           &clientAuth{id: clientFullID, token: authToken},
			expectedStatus: http.StatusNotFound,
			bodyTester:     notFoundBodyTester,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req, err := http.NewRequest(
				http.MethodGet,
				fmt.Sprintf(
					"%s/v1/graph/%s/execution/%s/",
					s.server.URL,
					tt.graphID,
					tt.executionID,
				),
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

func (s *ServerTestSuite) Test_PatchExecutionTests() {
	tests := []struct {
		name           string
		auth           *clientAuth
		bodyTester     func(t *testing.T, body map[string]any)
		executionID    string
		payload        string
		expectedStatus int
	}{
		{
			name:           "InvalidAlreadyFinished",
			executionID:    executionDone.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			payload:        `{"status": "running"}`,
			expectedStatus: http.StatusConflict,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, "message", "contains message key")
				assert.Contains(t, body["message"], "execution already finished")
			},
		},
		{
			name:           "InvalidUnknownStatus",
			executionID:    execution.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			payload:        `{"status": "exploded"}`,
			expectedStatus: http.StatusBadRequest,
			bodyTester:     validationBodyTester,
		},
		{
			name:        "InvalidUnknownNodeExecution",
			executionID: execution.ID.String(),
			auth:        &clientAuth{id: clientFullID, token: authToken},
			payload: fmt.Sprintf(
				`{"node_results": [{"node_execution_id": "%s", "status": "completed"}]}`,
				uuid.New().String(),
			),
			expectedStatus: http.StatusNotFound,
			bodyTester:     notFoundBodyTester,
		},
		{
			name:        "InvalidOutputDataTooLarge",
			executionID: execution.ID.String(),
			auth:        &clientAuth{id: clientFullID, token: authToken},
			payload: fmt.Sprintf(
				`{"node_results": [{"node_execution_id": "%s", "status": "completed", "output_data": {"blob": "%s"}}]}`,
				execution.NodeExecutions[0].ID.String(),
				longString(1<<20),
			),
			expectedStatus: http.StatusBadRequest,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, "message", "contains message key")
				assert.Contains(t, body["message"], "output_data too large")
			},
		},
		{
			name:           "InvalidNoPermission",
			executionID:    execution.ID.String(),
			auth:           &clientAuth{id: clientNoPermsID, token: authToken},
			payload:        `{"status": "running"}`,
			expectedStatus: http.StatusUnauthorized,
			bodyTester:     unauthorizedBodyTester,
		},
		{
			name:           "ValidRunning",
			executionID:    execution.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			payload:        `{"status": "running", "stats": {"wall_time_ms": 12, "node_count": 2, "error_count": 0}}`,
			expectedStatus: http.StatusOK,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "running", body["status"])
			},
		},
		{
			name:        "ValidNodeResult",
			executionID: execution.ID.String(),
			auth:        &clientAuth{id: clientFullID, token: authToken},
			payload: fmt.Sprintf(
				`{"node_results": [{"node_execution_id": "%s", "status": "completed", "output_data": {"caption": "a dog"}, "stats": {"wall_time_ms": 3, "retries": 0}}]}`,
				execution.NodeExecutions[0].ID.String(),
			),
			expectedStatus: http.StatusOK,
			bodyTester: func(t *testing.T, body map[string]any) {
				nodeExecutions, ok := body["node_executions"].([]any)
				assert.True(t, ok, "node_executions is a list")

				completed := 0
				for _, raw := range nodeExecutions {
					nodeExecution, ok := raw.(map[string]any)
					assert.True(t, ok, "node execution is an object")
					if nodeExecution["status"] == "completed" {
						completed++
						assert.Equal(
							t,
							map[string]any{"caption": "a dog"},
							nodeExecution["output_data"],
						)
					}
				}
				assert.Equal(t, 1, completed, "exactly one node execution completed")
			},
		},
		{
			name:           "ValidComplete",
			executionID:    execution.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			payload:        `{"status": "completed"}`,
			expectedStatus: http.StatusOK,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "completed", body["status"])
			},
		},
		{
			name:           "InvalidAfterComplete",
			executionID:    execution.ID.String(),
			auth:           &clientAuth{id: clientFullID, token: authToken},
			payload:        `{"status": "running"}`,
			expectedStatus: http.StatusConflict,
			bodyTester: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, "message", "contains message key")
				assert.Contains(t, body["message"], "execution already finished")
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req, err := http.NewRequest(
				http.MethodPatch,
				fmt.Sprintf(
					"%s/v1/graph/%s/execution/%s/",
					s.server.URL,
					graphActive.ID.String(),
					tt.executionID,
				),
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
