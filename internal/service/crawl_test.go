package service

import (
	"context"
	"testing"

	"FashionSync/internal/model"
	"FashionSync/internal/repository"
)

type fakeCrawlRepo struct {
	repository.CrawlRepository
	run *model.CrawlRun
}

func (f *fakeCrawlRepo) LatestRun(_ context.Context) (*model.CrawlRun, error) {
	return f.run, nil
}

func TestLatestRun(t *testing.T) {
	want := &model.CrawlRun{RunUUID: "run-0901", Status: "done", TotalChannels: 5, DoneChannels: 4, ErrorChannels: 1}
	s := &CrawlService{crawlRepo: &fakeCrawlRepo{run: want}}

	got, err := s.LatestRun(context.Background())
	if err != nil {
		t.Fatalf("LatestRun失败: %v", err)
	}
	if got.RunUUID != want.RunUUID || got.Status != "done" || got.DoneChannels != 4 {
		t.Errorf("会话 = %+v", got)
	}
}
