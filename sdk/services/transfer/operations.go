// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const searchPageSize = 100

// Ls lists one level of a remote directory on an endpoint.
func (s *TransferService) Ls(ctx context.Context, endpointID, path string) ([]Entry, error) {
	url := s.http.BuildURL(map[string]string{"path": path},
		"operation", "endpoint", endpointID, "ls")
	body, _, err := s.http.Do(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	var resp lsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("json parsing failed: %w", err)
	}
	return resp.Data, nil
}

// SearchEndpoints pages through endpoint_search for the given visibility
// scope.
func (s *TransferService) SearchEndpoints(ctx context.Context, filterScope string) ([]Endpoint, error) {
	var endpoints []Endpoint
	offset := 0

	for {
		url := s.http.BuildURL(map[string]string{
			"filter_scope": filterScope,
			"offset":       strconv.Itoa(offset),
			"limit":        strconv.Itoa(searchPageSize),
		}, "endpoint_search")
		body, _, err := s.http.Do(ctx, "GET", url, nil)
		if err != nil {
			return nil, err
		}

		var resp endpointSearchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("json parsing failed: %w", err)
		}
		endpoints = append(endpoints, resp.Data...)

		if !resp.HasNextPage || len(resp.Data) == 0 {
			break
		}
		offset += len(resp.Data)
	}
	return endpoints, nil
}

// ResolveEndpoint finds an endpoint shared with the operator by display or
// canonical name and returns its id.
func (s *TransferService) ResolveEndpoint(ctx context.Context, name string) (string, error) {
	endpoints, err := s.SearchEndpoints(ctx, "shared-with-me")
	if err != nil {
		return "", fmt.Errorf("endpoint search failed: %w", err)
	}
	for _, ep := range endpoints {
		if ep.DisplayName == name || ep.CanonicalName == name {
			return ep.ID, nil
		}
	}
	return "", fmt.Errorf("unable to find remote endpoint %s: %w", name, ErrEndpointNotFound)
}

func (s *TransferService) submissionID(ctx context.Context) (string, error) {
	url := s.http.BuildURL(nil, "submission_id")
	body, _, err := s.http.Do(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	var resp submissionIDResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("json parsing failed: %w", err)
	}
	if resp.Value == "" {
		return "", errors.New("empty submission id")
	}
	return resp.Value, nil
}

// Submit sends an asynchronous transfer job and returns the task id. Sync
// level is always checksum so completed files are verified end to end.
func (s *TransferService) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if len(req.Items) == 0 {
		return "", errors.New("no items to transfer")
	}

	subID, err := s.submissionID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain submission id: %w", err)
	}

	doc := transferDocument{
		DataType:            "transfer",
		SubmissionID:        subID,
		SourceEndpoint:      req.SourceEndpoint,
		DestinationEndpoint: req.DestinationEndpoint,
		Label:               req.Label,
		SyncLevel:           "checksum",
	}
	for _, item := range req.Items {
		doc.Data = append(doc.Data, transferItemDocument{
			DataType:        "transfer_item",
			SourcePath:      item.Source,
			DestinationPath: item.Destination,
		})
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transfer document: %w", err)
	}

	url := s.http.BuildURL(nil, "transfer")
	body, _, err := s.http.Do(ctx, "POST", url, payload)
	if err != nil {
		return "", err
	}

	var resp submitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("json parsing failed: %w", err)
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("submission rejected: %s %s", resp.Code, resp.Message)
	}
	return resp.TaskID, nil
}

// TaskWait blocks until the task reaches a terminal status, polling at the
// given interval. It returns (true, nil) on success, (false, nil) when the
// timeout elapses without a result, and an error when the task failed.
func (s *TransferService) TaskWait(ctx context.Context, taskID string, timeout, poll time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	url := s.http.BuildURL(nil, "task", taskID)

	for {
		body, _, err := s.http.Do(ctx, "GET", url, nil)
		if err != nil {
			return false, err
		}
		var task Task
		if err := json.Unmarshal(body, &task); err != nil {
			return false, fmt.Errorf("json parsing failed: %w", err)
		}

		switch task.Status {
		case TaskStatusSucceeded:
			return true, nil
		case TaskStatusFailed:
			if task.NiceStatus != "" {
				return false, fmt.Errorf("task %s failed: %s", taskID, task.NiceStatus)
			}
			return false, fmt.Errorf("task %s failed", taskID)
		}

		if time.Now().Add(poll).After(deadline) {
			return false, nil
		}

		timer := time.NewTimer(poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
}
