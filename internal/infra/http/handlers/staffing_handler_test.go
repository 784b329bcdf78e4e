package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

type MockStaffDirectory struct {
	mock.Mock
}

func (m *MockStaffDirectory) ListMembers(ctx context.Context) ([]entity.StaffMember, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StaffMember), args.Error(1)
}

func (m *MockStaffDirectory) StatsByMember(ctx context.Context) (map[string]entity.StaffStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entity.StaffStats), args.Error(1)
}

func TestHandleReplacements(t *testing.T) {
	directory := new(MockStaffDirectory)
	directory.On("ListMembers", mock.Anything).Return([]entity.StaffMember{
		{ID: "a", Name: "Alice", Role: "Serveur"},
		{ID: "b", Name: "Bruno", Role: "Serveur"},
	}, nil)
	directory.On("StatsByMember", mock.Anything).Return(map[string]entity.StaffStats{
		"a": {Reliability: 90, EventsMonth: 5},
		"b": {Reliability: 90, EventsMonth: 2},
	}, nil)

	body, _ := json.Marshal(map[string]any{"role": "Serveur", "assigned_ids": []string{}})
	req := httptest.NewRequest(http.MethodPost, "/staffing/replacements", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	NewStaffingHandler(directory).HandleReplacements(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Candidates []entity.ReplacementCandidate `json:"candidates"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Candidates, 2)
	assert.Equal(t, "b", resp.Candidates[0].ID)
	assert.Equal(t, "a", resp.Candidates[1].ID)
}

func TestHandleReplacementsRequiresRole(t *testing.T) {
	directory := new(MockStaffDirectory)

	body := bytes.NewReader([]byte(`{"role": "  "}`))
	req := httptest.NewRequest(http.MethodPost, "/staffing/replacements", body)
	rec := httptest.NewRecorder()

	NewStaffingHandler(directory).HandleReplacements(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	directory.AssertNotCalled(t, "ListMembers", mock.Anything)
}

func TestHandleReplacementsEmptyPoolIsValid(t *testing.T) {
	directory := new(MockStaffDirectory)
	directory.On("ListMembers", mock.Anything).Return([]entity.StaffMember{}, nil)
	directory.On("StatsByMember", mock.Anything).Return(map[string]entity.StaffStats{}, nil)

	body := bytes.NewReader([]byte(`{"role": "Sommelier"}`))
	req := httptest.NewRequest(http.MethodPost, "/staffing/replacements", body)
	rec := httptest.NewRecorder()

	NewStaffingHandler(directory).HandleReplacements(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"candidates": []}`, rec.Body.String())
}
