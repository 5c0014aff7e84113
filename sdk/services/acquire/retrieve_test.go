// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scc-digitalhub/terraref-cli/sdk/services/transfer"
)

// fakeTransfer simulates the transfer service: Submit records the requested
// destination and TaskWait materializes the file, the way a completed
// transfer would.
type fakeTransfer struct {
	listings  map[string][]transfer.Entry
	failFor   map[string]error // remote path -> submit error
	noResult  map[string]bool  // remote path -> wait times out (false, nil)
	dontWrite map[string]bool  // remote path -> wait succeeds but file never lands

	submissions  []transfer.SubmitRequest
	destByTask   map[string]string
	remoteByTask map[string]string
}

func (f *fakeTransfer) ResolveEndpoint(_ context.Context, name string) (string, error) {
	if name == "" {
		return "", transfer.ErrEndpointNotFound
	}
	return "remote-ep-id", nil
}

func (f *fakeTransfer) Ls(_ context.Context, _, p string) ([]transfer.Entry, error) {
	entries, ok := f.listings[p]
	if !ok {
		return nil, fmt.Errorf("no such path: %s", p)
	}
	return entries, nil
}

func (f *fakeTransfer) Submit(_ context.Context, req transfer.SubmitRequest) (string, error) {
	remote := req.Items[0].Source
	if err, ok := f.failFor[remote]; ok {
		return "", err
	}
	f.submissions = append(f.submissions, req)
	if f.destByTask == nil {
		f.destByTask = map[string]string{}
		f.remoteByTask = map[string]string{}
	}
	taskID := fmt.Sprintf("task-%d", len(f.submissions))
	f.destByTask[taskID] = req.Items[0].Destination
	f.remoteByTask[taskID] = remote
	return taskID, nil
}

func (f *fakeTransfer) TaskWait(_ context.Context, taskID string, _, _ time.Duration) (bool, error) {
	dest, ok := f.destByTask[taskID]
	if !ok {
		return false, fmt.Errorf("unknown task: %s", taskID)
	}
	remote := f.remoteByTask[taskID]
	if f.noResult[remote] {
		return false, nil
	}
	if f.dontWrite[remote] {
		return true, nil
	}
	if err := os.WriteFile(dest, []byte("image"), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

type recordingStore struct {
	beginErr error
	putErr   map[string]error // base name -> error
	began    int
	stored   []string
}

func (s *recordingStore) Begin(_ context.Context) error {
	s.began++
	return s.beginErr
}

func (s *recordingStore) Put(_ context.Context, localPath string) error {
	if err, ok := s.putErr[filepath.Base(localPath)]; ok {
		return err
	}
	s.stored = append(s.stored, localPath)
	return nil
}

func newTestDriver(t *testing.T, api *fakeTransfer) *Driver {
	t.Helper()
	return &Driver{
		Transfer:        api,
		Log:             zap.NewNop(),
		LocalRoot:       t.TempDir(),
		LocalEndpointID: "local-ep-id",
		RemoteEndpoint:  "Terraref",
		WaitTimeout:     time.Second,
		PollInterval:    time.Millisecond,
	}
}

func TestRetrieveDownloadsSelection(t *testing.T) {
	api := &fakeTransfer{}
	d := newTestDriver(t, api)

	selected := []Selected{
		{RemotePath: "/season/scan1/a.tif"},
		{RemotePath: "/season/scan2/b.tif"},
	}
	artifacts, err := d.Retrieve(context.Background(), "remote-ep-id", selected)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	for _, a := range artifacts {
		if _, err := os.Stat(a.LocalPath); err != nil {
			t.Errorf("missing local file %s: %v", a.LocalPath, err)
		}
	}

	req := api.submissions[0]
	if req.SourceEndpoint != "remote-ep-id" || req.DestinationEndpoint != "local-ep-id" {
		t.Errorf("unexpected endpoints: %+v", req)
	}
	if !strings.HasPrefix(req.Label, "Get image file ") {
		t.Errorf("unexpected label: %q", req.Label)
	}
	if got := req.Items[0].Destination; got != filepath.Join(d.LocalRoot, "a.tif") {
		t.Errorf("unexpected destination: %s", got)
	}
}

func TestRetrieveSkipsExistingFiles(t *testing.T) {
	api := &fakeTransfer{}
	d := newTestDriver(t, api)

	selected := []Selected{{RemotePath: "/season/scan1/a.tif"}}
	if _, err := d.Retrieve(context.Background(), "remote-ep-id", selected); err != nil {
		t.Fatalf("first Retrieve: %v", err)
	}
	if len(api.submissions) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(api.submissions))
	}

	// second run: the file is already on disk, nothing gets submitted
	if _, err := d.Retrieve(context.Background(), "remote-ep-id", selected); err != nil {
		t.Fatalf("second Retrieve: %v", err)
	}
	if len(api.submissions) != 1 {
		t.Fatalf("second run submitted again: %d submissions", len(api.submissions))
	}
}

func TestRetrieveContinuesPastFailures(t *testing.T) {
	api := &fakeTransfer{
		failFor: map[string]error{"/s/f2/b.tif": errors.New("endpoint busy")},
	}
	d := newTestDriver(t, api)

	selected := []Selected{
		{RemotePath: "/s/f1/a.tif"},
		{RemotePath: "/s/f2/b.tif"},
		{RemotePath: "/s/f3/c.tif"},
	}
	artifacts, err := d.Retrieve(context.Background(), "remote-ep-id", selected)

	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	if len(partial.Failures) != 1 || partial.Failures[0].RemotePath != "/s/f2/b.tif" {
		t.Fatalf("unexpected failures: %+v", partial.Failures)
	}
	// files before and after the failure were still retrieved
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	if !strings.Contains(err.Error(), "unable to retrieve all files individually") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestRetrieveMissingFileAfterWaitIsAccumulated(t *testing.T) {
	api := &fakeTransfer{
		dontWrite: map[string]bool{"/s/f2/b.tif": true},
	}
	d := newTestDriver(t, api)

	selected := []Selected{
		{RemotePath: "/s/f1/a.tif"},
		{RemotePath: "/s/f2/b.tif"},
		{RemotePath: "/s/f3/c.tif"},
	}
	artifacts, err := d.Retrieve(context.Background(), "remote-ep-id", selected)

	// the wait reported success but the file never landed
	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	if len(partial.Failures) != 1 || partial.Failures[0].RemotePath != "/s/f2/b.tif" {
		t.Fatalf("unexpected failures: %+v", partial.Failures)
	}
	if !strings.Contains(partial.Failures[0].Err.Error(), "unable to find downloaded file") {
		t.Errorf("unexpected failure cause: %v", partial.Failures[0].Err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	for _, name := range []string{"a.tif", "c.tif"} {
		if _, err := os.Stat(filepath.Join(d.LocalRoot, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	// all three were still submitted
	if len(api.submissions) != 3 {
		t.Errorf("expected 3 submissions, got %d", len(api.submissions))
	}
}

func TestRetrieveWaitTimeoutIsAccumulated(t *testing.T) {
	api := &fakeTransfer{
		noResult: map[string]bool{"/s/f1/a.tif": true},
	}
	d := newTestDriver(t, api)

	selected := []Selected{
		{RemotePath: "/s/f1/a.tif"},
		{RemotePath: "/s/f2/b.tif"},
	}
	artifacts, err := d.Retrieve(context.Background(), "remote-ep-id", selected)

	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	if len(partial.Failures) != 1 || partial.Failures[0].RemotePath != "/s/f1/a.tif" {
		t.Fatalf("unexpected failures: %+v", partial.Failures)
	}
	if !strings.Contains(partial.Failures[0].Err.Error(), "unable to retrieve file") {
		t.Errorf("unexpected failure cause: %v", partial.Failures[0].Err)
	}
	if len(artifacts) != 1 || artifacts[0].RemotePath != "/s/f2/b.tif" {
		t.Fatalf("unexpected artifacts: %+v", artifacts)
	}
}

func TestRetrieveStoreBeginAbortsRun(t *testing.T) {
	api := &fakeTransfer{}
	d := newTestDriver(t, api)
	d.Store = &recordingStore{beginErr: errors.New("no session")}

	selected := []Selected{{RemotePath: "/s/f1/a.tif"}}
	_, err := d.Retrieve(context.Background(), "remote-ep-id", selected)
	if err == nil || !strings.Contains(err.Error(), "store precondition failed") {
		t.Fatalf("expected precondition failure, got %v", err)
	}
	if len(api.submissions) != 0 {
		t.Fatalf("no transfer should have been submitted, got %d", len(api.submissions))
	}
}

func TestRetrieveStorePutFailureKeepsFileAndAggregates(t *testing.T) {
	api := &fakeTransfer{}
	d := newTestDriver(t, api)
	st := &recordingStore{putErr: map[string]error{"b.tif": errors.New("upload refused")}}
	d.Store = st

	selected := []Selected{
		{RemotePath: "/s/f1/a.tif"},
		{RemotePath: "/s/f2/b.tif"},
	}
	artifacts, err := d.Retrieve(context.Background(), "remote-ep-id", selected)

	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	if len(partial.Failures) != 1 || partial.Failures[0].RemotePath != "/s/f2/b.tif" {
		t.Fatalf("unexpected failures: %+v", partial.Failures)
	}
	if len(artifacts) != 1 || path.Base(artifacts[0].RemotePath) != "a.tif" {
		t.Fatalf("unexpected artifacts: %+v", artifacts)
	}
	// the failed upload leaves the local copy in place
	if _, statErr := os.Stat(filepath.Join(d.LocalRoot, "b.tif")); statErr != nil {
		t.Errorf("local copy should remain after failed upload: %v", statErr)
	}
	if st.began != 1 {
		t.Errorf("Begin called %d times, want 1", st.began)
	}
}

func TestRunEndToEndAuto(t *testing.T) {
	api := &fakeTransfer{
		listings: map[string][]transfer.Entry{
			"/season": {
				{Name: "scan1", Type: transfer.EntryTypeDir},
				{Name: "scan2", Type: transfer.EntryTypeDir},
				{Name: "stray.tif", Type: transfer.EntryTypeFile},
			},
			"/season/scan1": {
				{Name: "a_10pct.tif", Type: transfer.EntryTypeFile},
				{Name: "a.tif", Type: transfer.EntryTypeFile},
			},
			"/season/scan2": {
				{Name: "b_10pct.tif", Type: transfer.EntryTypeFile},
			},
		},
	}
	d := newTestDriver(t, api)
	d.RemoteRoot = "/season"
	d.Mode = ModeAuto
	d.Policy = FilterPolicy{
		Extensions:     []string{"tif"},
		Include:        []string{"_10pct"},
		FirstMatchOnly: true,
	}
	d.ManifestPath = filepath.Join(d.LocalRoot, "file_10pct.txt")

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(d.ManifestPath)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	want := "/season/scan1/a_10pct.tif\n/season/scan2/b_10pct.tif\n"
	if string(data) != want {
		t.Errorf("manifest = %q, want %q", data, want)
	}
	for _, name := range []string{"a_10pct.tif", "b_10pct.tif"} {
		if _, err := os.Stat(filepath.Join(d.LocalRoot, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRunContinuesWhenRootListingFails(t *testing.T) {
	api := &fakeTransfer{listings: map[string][]transfer.Entry{}}
	d := newTestDriver(t, api)
	d.RemoteRoot = "/missing"
	d.Mode = ModeAuto
	d.Policy = FilterPolicy{Extensions: []string{"tif"}}
	d.ManifestPath = filepath.Join(d.LocalRoot, "manifest.txt")

	// a failed root listing is soft: the run completes with nothing found
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(api.submissions) != 0 {
		t.Fatalf("nothing should have been submitted, got %d", len(api.submissions))
	}
}

func TestRunListBypassesScanning(t *testing.T) {
	api := &fakeTransfer{}
	d := newTestDriver(t, api)

	listPath := filepath.Join(t.TempDir(), "list.txt")
	content := "/s/f1/a.tif\n\n/s/f2/b.tif\n"
	if err := os.WriteFile(listPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := d.RunList(context.Background(), listPath); err != nil {
		t.Fatalf("RunList: %v", err)
	}
	if len(api.submissions) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(api.submissions))
	}
}

func TestReadListMissingFile(t *testing.T) {
	if _, err := ReadList(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected an error for a missing list file")
	}
}
