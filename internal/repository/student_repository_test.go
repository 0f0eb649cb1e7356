package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minutepro/iep-minutes-api/internal/models"
)

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "grade", "active_subject",
		"goal_math", "goal_english", "goal_task_completion", "created_at", "updated_at"})
}

func TestStudentRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := studentRows().
		AddRow(1, "Alex Kim", "7th", "Math", 60, 90, 45, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT (.+) FROM students WHERE grade = \$1 AND LOWER\(name\) LIKE \$2 ORDER BY id`).
		WithArgs("7th", "%alex%").
		WillReturnRows(rows)

	students, err := repo.List(context.Background(), models.StudentFilter{Grade: models.Grade7, Search: "Alex"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.NotNil(t, students[0].GoalEnglish)
	assert.Equal(t, 90, *students[0].GoalEnglish)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListNullGoals(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := studentRows().
		AddRow(2, "Sam Ortiz", "6th", "English", nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT (.+) FROM students ORDER BY id`).WillReturnRows(rows)

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Nil(t, students[0].Goal(models.SubjectMath))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Alex Kim", "7th", "Math", 60, 90, 45, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	goalMath, goalEnglish, goalTC := 60, 90, 45
	student := &models.Student{
		Name:               "Alex Kim",
		Grade:              models.Grade7,
		ActiveSubject:      models.SubjectMath,
		GoalMath:           &goalMath,
		GoalEnglish:        &goalEnglish,
		GoalTaskCompletion: &goalTC,
	}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(9), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
