package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func TestGetAllJobsActiveOnly(t *testing.T) {
	repo, mock := newTestRepository(t)

	rows := sqlmock.NewRows([]string{
		"id", "public_id", "title", "department", "location", "description",
		"salary_min", "salary_max", "is_active", "view_count", "created_at", "version",
	}).AddRow(int64(1), "abc123", "Engineer", "Engineering", "Remote", "desc", nil, nil, true, int64(4), time.Now(), int32(1))

	mock.ExpectQuery(`SELECT id, public_id, title`).
		WithArgs(true).
		WillReturnRows(rows)

	jobs, err := repo.GetAllJobs(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].PublicID != "abc123" {
		t.Fatalf("jobs = %+v", jobs)
	}
	expectationsMet(t, mock)
}

func TestUpdateJobVersionConflict(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`UPDATE jobs`).
		WillReturnError(sql.ErrNoRows)

	job := &domain.Job{ID: 1, Title: "Engineer", Version: 2}
	assertErrNoRows(t, repo.UpdateJob(job))
	expectationsMet(t, mock)
}

func TestIncrementJobViews(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`UPDATE jobs SET view_count = view_count \+ 1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.IncrementJobViews(1); err != nil {
		t.Fatal(err)
	}
	expectationsMet(t, mock)
}
