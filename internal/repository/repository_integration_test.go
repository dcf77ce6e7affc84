//go:build integration

// internal/repository/repository_integration_test.go
package repository_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"smart_learn_api/internal/model"
	"smart_learn_api/internal/repository"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

// TestMain はPostgreSQLコンテナを起動し、マイグレーション済みのDBを全テストで共有します。
// Dockerが利用できない環境では実行できません。
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	pool.MaxWait = 120 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=user",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=smart_learn",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start PostgreSQL resource: %s", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=user password=secret dbname=smart_learn sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		var errRetry error
		testDB, errRetry = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
			// NewDB と同じく一意制約違反を gorm.ErrDuplicatedKey で受け取る
			TranslateError: true,
		})
		if errRetry != nil {
			return errRetry
		}
		sqlDB, errRetry := testDB.DB()
		if errRetry != nil {
			return errRetry
		}
		return sqlDB.Ping()
	}); err != nil {
		if pErr := pool.Purge(resource); pErr != nil {
			log.Printf("Warning: Could not purge resource: %s", pErr)
		}
		log.Fatalf("Could not connect to PostgreSQL container: %s", err)
	}

	if err = testDB.AutoMigrate(&model.Learner{}, &model.Course{}, &model.StudyModule{}, &model.Task{}); err != nil {
		log.Fatalf("Could not migrate database: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge PostgreSQL resource: %s", err)
	}

	os.Exit(code)
}

func clearTable(t *testing.T, table string) {
	t.Helper()
	require.NoError(t, testDB.Exec("DELETE FROM "+table).Error)
}

func createTestLearner(t *testing.T) *model.Learner {
	t.Helper()
	learner := &model.Learner{
		LearnerID:        uuid.New(),
		Name:             "Taro",
		Email:            fmt.Sprintf("taro-%s@example.com", uuid.NewString()[:8]),
		PasswordHash:     "hashed-password",
		StudyHoursPerDay: 4,
	}
	require.NoError(t, testDB.Create(learner).Error)
	return learner
}

func TestGormLearnerRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormLearnerRepository()

	t.Run("正常系: 作成した学習者をIDとメールで引ける", func(t *testing.T) {
		clearTable(t, "learners")

		learner := &model.Learner{
			LearnerID:        uuid.New(),
			Name:             "Hanako",
			Email:            "hanako@example.com",
			PasswordHash:     "hashed-password",
			StudyHoursPerDay: 2,
		}
		require.NoError(t, repo.Create(ctx, testDB, learner))

		byID, err := repo.FindByID(ctx, testDB, learner.LearnerID)
		require.NoError(t, err)
		assert.Equal(t, learner.Email, byID.Email)
		assert.Equal(t, 2, byID.StudyHoursPerDay)

		byEmail, err := repo.FindByEmail(ctx, testDB, learner.Email)
		require.NoError(t, err)
		assert.Equal(t, learner.LearnerID, byEmail.LearnerID)
	})

	t.Run("異常系: メールの一意制約違反はErrConflict", func(t *testing.T) {
		clearTable(t, "learners")
		existing := createTestLearner(t)

		dup := &model.Learner{
			LearnerID:    uuid.New(),
			Name:         "Jiro",
			Email:        existing.Email,
			PasswordHash: "hashed-password",
		}
		err := repo.Create(ctx, testDB, dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("異常系: 存在しない学習者はErrNotFound", func(t *testing.T) {
		clearTable(t, "learners")

		_, err := repo.FindByID(ctx, testDB, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)

		_, err = repo.FindByEmail(ctx, testDB, "nobody@example.com")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("正常系: 部分更新が反映される", func(t *testing.T) {
		clearTable(t, "learners")
		learner := createTestLearner(t)

		err := repo.Update(ctx, testDB, learner.LearnerID, map[string]interface{}{"study_hours_per_day": 8})
		require.NoError(t, err)

		updated, err := repo.FindByID(ctx, testDB, learner.LearnerID)
		require.NoError(t, err)
		assert.Equal(t, 8, updated.StudyHoursPerDay)
	})

	t.Run("異常系: 存在しない学習者の更新はErrNotFound", func(t *testing.T) {
		clearTable(t, "learners")

		err := repo.Update(ctx, testDB, uuid.New(), map[string]interface{}{"study_hours_per_day": 8})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestGormCourseRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormCourseRepository()

	newCourse := func(learnerID uuid.UUID, name string) *model.Course {
		courseID := uuid.New()
		return &model.Course{
			CourseID:       courseID,
			LearnerID:      learnerID,
			Name:           name,
			Syllabus:       "topic1, topic2",
			TargetDuration: "4 weeks",
			AgentName:      name + " Specialist",
			Status:         model.CourseStatusActive,
			Roadmap: []model.StudyModule{
				{ModuleID: uuid.New(), CourseID: courseID, Position: 0, Title: "Basics", Difficulty: model.DifficultyBeginner, EstimatedDuration: "3 hours", Status: model.ModuleStatusInProgress, Resources: []string{"golang basics tutorial"}},
				{ModuleID: uuid.New(), CourseID: courseID, Position: 1, Title: "Concurrency", Difficulty: model.DifficultyAdvanced, EstimatedDuration: "6 hours", Status: model.ModuleStatusPending, Resources: []string{"golang concurrency"}},
			},
		}
	}

	t.Run("正常系: ロードマップ込みで保存・復元できる", func(t *testing.T) {
		clearTable(t, "study_modules")
		clearTable(t, "courses")
		clearTable(t, "learners")
		learner := createTestLearner(t)

		course := newCourse(learner.LearnerID, "Golang")
		require.NoError(t, repo.Create(ctx, testDB, course))

		loaded, err := repo.FindByID(ctx, testDB, learner.LearnerID, course.CourseID)
		require.NoError(t, err)
		assert.Equal(t, "Golang", loaded.Name)
		assert.Equal(t, "Golang Specialist", loaded.AgentName)
		assert.Equal(t, model.CourseStatusActive, loaded.Status)

		// 関連行は position 順で復元される
		require.Len(t, loaded.Roadmap, 2)
		assert.Equal(t, "Basics", loaded.Roadmap[0].Title)
		assert.Equal(t, model.ModuleStatusInProgress, loaded.Roadmap[0].Status)
		assert.Equal(t, model.DifficultyAdvanced, loaded.Roadmap[1].Difficulty)
		assert.Equal(t, datatypes.JSONSlice[string]{"golang concurrency"}, loaded.Roadmap[1].Resources)
	})

	t.Run("異常系: 同一学習者の同名コースはErrConflict", func(t *testing.T) {
		clearTable(t, "study_modules")
		clearTable(t, "courses")
		clearTable(t, "learners")
		learner := createTestLearner(t)

		require.NoError(t, repo.Create(ctx, testDB, newCourse(learner.LearnerID, "Golang")))
		err := repo.Create(ctx, testDB, newCourse(learner.LearnerID, "Golang"))
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
	})
}

func TestGormTaskRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormTaskRepository()

	newTask := func(learnerID uuid.UUID, title string) *model.Task {
		return &model.Task{
			TaskID:    uuid.New(),
			LearnerID: learnerID,
			Title:     title,
			Deadline:  "No Deadline",
			Priority:  model.TaskPriorityMedium,
		}
	}

	t.Run("正常系: 作成と一覧取得", func(t *testing.T) {
		clearTable(t, "tasks")
		clearTable(t, "learners")
		learner := createTestLearner(t)

		first := newTask(learner.LearnerID, "Review notes")
		require.NoError(t, repo.Create(ctx, testDB, first))
		// created_at 降順を確認するため、わずかに時間をずらす
		time.Sleep(10 * time.Millisecond)
		second := newTask(learner.LearnerID, "Watch lecture")
		require.NoError(t, repo.Create(ctx, testDB, second))

		tasks, err := repo.FindByLearner(ctx, testDB, learner.LearnerID)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "Watch lecture", tasks[0].Title)
		assert.Equal(t, "Review notes", tasks[1].Title)
	})

	t.Run("正常系: 他の学習者のタスクは見えない", func(t *testing.T) {
		clearTable(t, "tasks")
		clearTable(t, "learners")
		owner := createTestLearner(t)
		other := createTestLearner(t)

		task := newTask(owner.LearnerID, "Review notes")
		require.NoError(t, repo.Create(ctx, testDB, task))

		_, err := repo.FindByID(ctx, testDB, other.LearnerID, task.TaskID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		tasks, err := repo.FindByLearner(ctx, testDB, other.LearnerID)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("正常系: 更新と削除", func(t *testing.T) {
		clearTable(t, "tasks")
		clearTable(t, "learners")
		learner := createTestLearner(t)

		task := newTask(learner.LearnerID, "Review notes")
		require.NoError(t, repo.Create(ctx, testDB, task))

		err := repo.Update(ctx, testDB, learner.LearnerID, task.TaskID, map[string]interface{}{"is_completed": true})
		require.NoError(t, err)

		updated, err := repo.FindByID(ctx, testDB, learner.LearnerID, task.TaskID)
		require.NoError(t, err)
		assert.True(t, updated.IsCompleted)

		require.NoError(t, repo.Delete(ctx, testDB, learner.LearnerID, task.TaskID))
		_, err = repo.FindByID(ctx, testDB, learner.LearnerID, task.TaskID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: 存在しないタスクの削除はErrNotFound", func(t *testing.T) {
		clearTable(t, "tasks")
		clearTable(t, "learners")
		learner := createTestLearner(t)

		err := repo.Delete(ctx, testDB, learner.LearnerID, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
