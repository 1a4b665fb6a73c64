package batch

import (
	"context"
	"fmt"
	"sync"
)

// fakeService is an in-memory Service for tests.
type fakeService struct {
	mu sync.Mutex

	jobStatus    Status
	outputFileID string
	fileContent  map[string][]byte

	uploadErr   error
	createErr   error
	retrieveErr error
	downloadErr error

	uploads     int
	jobsCreated int
	retrievals  int
	uploaded    []byte
}

func newFakeService() *fakeService {
	return &fakeService{
		jobStatus:   StatusInProgress,
		fileContent: make(map[string][]byte),
	}
}

func (f *fakeService) UploadFile(_ context.Context, name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads++
	f.uploaded = append([]byte(nil), data...)
	return fmt.Sprintf("file-%d", f.uploads), nil
}

func (f *fakeService) CreateJob(_ context.Context, inputFileID string, _ map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.jobsCreated++
	return fmt.Sprintf("batch-%d", f.jobsCreated), nil
}

func (f *fakeService) RetrieveJob(_ context.Context, jobID string) (JobInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.retrieveErr != nil {
		return JobInfo{}, f.retrieveErr
	}
	f.retrievals++
	return JobInfo{Status: f.jobStatus, OutputFileID: f.outputFileID}, nil
}

func (f *fakeService) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return f.fileContent[fileID], nil
}

var _ Service = (*fakeService)(nil)
