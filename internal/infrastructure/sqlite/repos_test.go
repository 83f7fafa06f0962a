package sqlite_test

import (
	"testing"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
	"github.com/stagecraft-cd/stagecraft/internal/domain/planrepotest"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/sqlite"
)

func TestPlanRepo(t *testing.T) {
	planrepotest.Run(t, func(t *testing.T) domain.PlanRepository {
		db := sqlite.OpenTestDB(t)
		return &sqlite.PlanRepo{DB: db}
	})
}
