package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/inkfall/fableforge/pkg/story"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StoryDetail matches the API's story detail response.
type StoryDetail struct {
	Story        *story.Story       `json:"story"`
	Characters   []*story.Character `json:"characters"`
	PendingCount int                `json:"pending_count"`
}

// GenerateResult matches the API's generate response.
type GenerateResult struct {
	Scene           *story.Scene            `json:"scene"`
	NewCharacters   []*story.Character      `json:"new_characters"`
	ProposedChanges []*story.ProposedChange `json:"proposed_changes"`
}

// DecisionResult matches the API's decide response.
type DecisionResult struct {
	Change    *story.ProposedChange `json:"change"`
	Character *story.Character      `json:"character,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// apiError decodes the API's error envelope, falling back to the raw
// body when it is not JSON.
func apiError(action string, statusCode int, body []byte) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", statusCode, string(body))
	}
	return fmt.Errorf("%s: %s", action, errorResp.Error)
}

func getJSON(client *http.Client, url string, action string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apiError(action, resp.StatusCode, body)
	}
	return json.Unmarshal(body, v)
}

func postJSON(client *http.Client, url string, action string, reqBody, v any, wantStatus int) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return apiError(action, resp.StatusCode, body)
	}
	return json.Unmarshal(body, v)
}

func listStories(client *http.Client, baseURL string) ([]*story.Story, error) {
	var stories []*story.Story
	if err := getJSON(client, baseURL+"/v1/stories", "failed to list stories", &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func getStoryDetail(client *http.Client, baseURL string, storyID uuid.UUID) (*StoryDetail, error) {
	var detail StoryDetail
	url := fmt.Sprintf("%s/v1/stories/%s", baseURL, storyID)
	if err := getJSON(client, url, "failed to get story", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateStoryRequest matches the API request structure.
type CreateStoryRequest struct {
	Title   string `json:"title"`
	Premise string `json:"premise"`
	Genre   string `json:"genre,omitempty"`
}

func createStory(client *http.Client, baseURL, title, premise string) (*StoryDetail, error) {
	var detail StoryDetail
	req := CreateStoryRequest{Title: title, Premise: premise}
	if err := postJSON(client, baseURL+"/v1/stories", "failed to create story", req, &detail, http.StatusCreated); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GenerateSceneRequest matches the API request structure.
type GenerateSceneRequest struct {
	ChoiceText    string `json:"choice_text,omitempty"`
	ParentSceneID string `json:"parent_scene_id,omitempty"`
}

func generateScene(client *http.Client, baseURL string, storyID uuid.UUID, choiceText string, parentSceneID *uuid.UUID) (*GenerateResult, error) {
	req := GenerateSceneRequest{ChoiceText: choiceText}
	if parentSceneID != nil {
		req.ParentSceneID = parentSceneID.String()
	}

	var result GenerateResult
	url := fmt.Sprintf("%s/v1/stories/%s/generate", baseURL, storyID)
	if err := postJSON(client, url, "failed to generate scene", req, &result, http.StatusCreated); err != nil {
		return nil, err
	}
	return &result, nil
}

func listPendingChanges(client *http.Client, baseURL string, storyID uuid.UUID) ([]*story.ProposedChange, error) {
	var pending []*story.ProposedChange
	url := fmt.Sprintf("%s/v1/stories/%s/changes", baseURL, storyID)
	if err := getJSON(client, url, "failed to list changes", &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func decideChange(client *http.Client, baseURL string, storyID, changeID uuid.UUID, accept bool) (*DecisionResult, error) {
	var result DecisionResult
	url := fmt.Sprintf("%s/v1/stories/%s/changes/%s", baseURL, storyID, changeID)
	req := map[string]bool{"accept": accept}
	if err := postJSON(client, url, "failed to decide change", req, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}
