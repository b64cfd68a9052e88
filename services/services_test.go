package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fitFlowAPI/internal/metrics"
	"fitFlowAPI/internal/notification"
	"fitFlowAPI/internal/store"
	"fitFlowAPI/internal/streak"
	"fitFlowAPI/internal/user"
	"fitFlowAPI/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const uid = "user_1"

// Monday 05-05-2025
var start = time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) nextDay(n int) { c.now = c.now.AddDate(0, 0, n) }

type fixture struct {
	ctx      context.Context
	store    store.Store
	mem      *store.Memory
	clock    *clock
	notifier *MockNotifier
	sent     []notification.Notification
	metrics  *metrics.Manager

	achievements *services.AchievementService
	checkins     *services.CheckInService
	foods        *services.FoodService
	goals        *services.GoalService
	stats        *services.StatsService
	users        *services.UserService
	photos       *services.PhotoService
	export       *services.ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		ctx:      context.Background(),
		mem:      store.NewMemory(),
		clock:    &clock{now: start},
		notifier: NewMockNotifier(ctrl),
		metrics:  metrics.NewTestManager(),
	}
	f.store = f.mem
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n notification.Notification) error {
			f.sent = append(f.sent, n)
			return nil
		}).AnyTimes()

	deps := services.Deps{
		Store:    f.store,
		Streak:   streak.NewEngine(),
		Notifier: f.notifier,
		Metrics:  f.metrics,
		Location: time.UTC,
		Now:      f.clock.Now,
	}
	f.achievements = services.NewAchievementService(deps)
	f.checkins = services.NewCheckInService(deps, f.achievements)
	f.foods = services.NewFoodService(deps, f.achievements)
	f.goals = services.NewGoalService(deps, f.achievements)
	f.stats = services.NewStatsService(deps)
	f.users = services.NewUserService(deps)
	f.photos = services.NewPhotoService(deps, f.achievements)
	f.export = services.NewExportService(deps)

	require.NoError(t, f.users.CreateUser(f.ctx, uid, user.CreateUserRequest{Email: "test@example.com", EmailVerified: true}))
	return f
}

func (f *fixture) sentOf(typ notification.NotificationType) []notification.Notification {
	var out []notification.Notification
	for _, n := range f.sent {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// checkInDays checks in today and then on each following day, n times.
func (f *fixture) checkInDays(t *testing.T, n int, req services.CheckInRequest) *services.CheckInResult {
	t.Helper()
	var res *services.CheckInResult
	for i := 0; i < n; i++ {
		if i > 0 {
			f.clock.nextDay(1)
		}
		var err error
		res, err = f.checkins.CheckIn(f.ctx, uid, req)
		require.NoError(t, err, fmt.Sprintf("day %d", i))
	}
	return res
}

func kg(v float64) *float64 { return &v }
