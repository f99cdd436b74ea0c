package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetable/internal/model"
	"coursetable/internal/solve"
)

func testServer() *Server {
	input := model.Input{
		Courses: []model.Course{
			{ID: "CS101", TeacherID: "T1", Kind: model.TheorySession, SessionsPerWeek: 2},
		},
		Rooms: []model.Room{
			{ID: "R001", Name: "Theory Room 1", Capacity: 60, Kind: model.TheoryRoom},
		},
	}
	scheduler := model.NewScheduler(solve.NewGophersatSolver(), nil)
	return New(scheduler, input, 60*time.Second, nil)
}

func TestHealthEndpoint(t *testing.T) {
	app := testServer().App()

	request := httptest.NewRequest("GET", "/health", nil)
	response, err := app.Test(request)

	require.Nil(t, err)
	assert.Equal(t, 200, response.StatusCode)
}

func TestScheduleEndpointSuccess(t *testing.T) {
	// Arrange
	app := testServer().App()
	request := httptest.NewRequest("POST", "/api/schedule", strings.NewReader(`{"seed": 42}`))
	request.Header.Set("Content-Type", "application/json")

	// Act
	response, err := app.Test(request, 120000)

	// Assert
	require.Nil(t, err)
	assert.Equal(t, 200, response.StatusCode)

	var body scheduleResponse
	require.Nil(t, json.NewDecoder(response.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.RunID)
	assert.Contains(t, []string{"OPTIMAL", "FEASIBLE"}, body.Status)
	assert.Equal(t, 2, body.Theory.Sessions())
}

func TestScheduleEndpointInfeasible(t *testing.T) {
	// Arrange: block the entire theory calendar
	app := testServer().App()
	payload := `{"seed": 42, "blocked_start": 0, "blocked_end": 10}`
	request := httptest.NewRequest("POST", "/api/schedule", strings.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")

	// Act
	response, err := app.Test(request, 120000)

	// Assert
	require.Nil(t, err)
	assert.Equal(t, 422, response.StatusCode)

	var body scheduleResponse
	require.Nil(t, json.NewDecoder(response.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "INFEASIBLE", body.Status)
	assert.NotEmpty(t, body.RunID)
}
