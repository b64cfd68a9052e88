package handlers_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"fitFlowAPI/handlers"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/metrics"
	"fitFlowAPI/internal/notification"
	"fitFlowAPI/internal/store"
	"fitFlowAPI/middleware"
	"fitFlowAPI/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	uid = "user_1"
	// whsec_ + base64("fitflow-test-secret")
	webhookSecret = "whsec_Zml0Zmxvdy10ZXN0LXNlY3JldA=="
)

var now = time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)

type tokens map[string]*middleware.Identity

func (t tokens) Verify(_ context.Context, token string) (*middleware.Identity, error) {
	if id, ok := t[token]; ok {
		return id, nil
	}
	return nil, errors.New("unknown token")
}

type registrar struct {
	got []notification.RegisterDeviceRequest
}

func (r *registrar) RegisterDevice(_ context.Context, _ string, req notification.RegisterDeviceRequest) error {
	r.got = append(r.got, req)
	return nil
}

type server struct {
	t       *testing.T
	router  *mux.Router
	mem     *store.Memory
	svc     *services.Services
	devices *registrar
}

func newServer(t *testing.T, withPush bool) *server {
	t.Helper()
	s := &server{t: t, mem: store.NewMemory(), devices: &registrar{}}
	s.svc = services.New(services.Deps{
		Store:    s.mem,
		Metrics:  metrics.NewTestManager(),
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})

	var reg handlers.DeviceRegistrar
	if withPush {
		reg = s.devices
	}
	set := handlers.NewSet(s.svc, reg, webhookSecret)

	s.router = mux.NewRouter()
	s.router.HandleFunc("/webhooks/clerk", set.Webhook.HandleClerkWebhook).Methods(http.MethodPost)
	protected := s.router.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.AuthMiddleware(tokens{"good": {UID: uid, EmailVerified: true}}, true))
	set.RegisterProtected(protected)
	return s
}

func (s *server) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t, false)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/streak", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckInFlow(t *testing.T) {
	s := newServer(t, false)

	rec := s.do(http.MethodPost, "/api/v1/checkins", map[string]any{"weight": 80.2, "workout_done": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[services.CheckInResult](t, rec)
	assert.Equal(t, 1, res.Streak.State.Count)

	rec = s.do(http.MethodPost, "/api/v1/checkins", map[string]any{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/streak", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[services.StreakView](t, rec)
	assert.Equal(t, 1, view.Count)
	assert.True(t, view.CheckedInToday)
	assert.Equal(t, 3, view.NextMilestone)

	rec = s.do(http.MethodGet, "/api/v1/checkins/05-05-2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	day := decode[services.HistoryDay](t, rec)
	require.NotNil(t, day.CheckIn)
	assert.Equal(t, 80.2, *day.CheckIn.Weight)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/checkins/2025-05-05", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/checkins/05-05-2025", nil).Code)
	rec = s.do(http.MethodGet, "/api/v1/checkins/05-05-2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[services.HistoryDay](t, rec).CheckIn)

	rec = s.do(http.MethodPost, "/api/v1/streak/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[services.StreakView](t, rec).Count)
}

func TestCheckIn_BadInput(t *testing.T) {
	s := newServer(t, false)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/checkins", "{").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/checkins", map[string]any{"weight": -3}).Code)
}

func TestFoods(t *testing.T) {
	s := newServer(t, false)

	rec := s.do(http.MethodPost, "/api/v1/foods", services.FoodRequest{Name: "Oats", Calories: 300, Meal: "breakfast"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	day := decode[services.DayFoods](t, rec)
	assert.Equal(t, 300.0, day.Summary.Totals.Calories)

	rec = s.do(http.MethodPut, "/api/v1/foods/0", services.FoodRequest{Name: "Oats", Calories: 320})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 320.0, decode[services.DayFoods](t, rec).Foods[0].Calories)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/api/v1/foods/4", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/foods?date=today", nil).Code)

	rec = s.do(http.MethodDelete, "/api/v1/foods/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Oats", decode[services.RemovedFood](t, rec).Removed.Name)

	rec = s.do(http.MethodPost, "/api/v1/foods/0/restore", services.FoodRequest{Name: "Oats", Calories: 320})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[services.DayFoods](t, rec).Foods, 1)

	rec = s.do(http.MethodGet, "/api/v1/foods?date=05-05-2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[services.DayFoods](t, rec).Foods, 1)

	rec = s.do(http.MethodGet, "/api/v1/recent-foods", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]food.RecentFood](t, rec), 1)
}

func TestMyFoodsAndTargets(t *testing.T) {
	s := newServer(t, false)

	rec := s.do(http.MethodPost, "/api/v1/my-foods", services.FoodRequest{Name: "Shake", Calories: 210.4, Protein: 30})
	require.Equal(t, http.StatusCreated, rec.Code)
	saved := decode[services.SavedMyFood](t, rec)
	assert.Equal(t, 210.0, saved.Food.Calories)

	rec = s.do(http.MethodPost, "/api/v1/my-foods/"+saved.Food.ID+"/add?meal=snack", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, food.MealSnack, decode[services.DayFoods](t, rec).Foods[0].Meal)

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/my-foods/"+saved.Food.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/my-foods/"+saved.Food.ID, nil).Code)

	rec = s.do(http.MethodPut, "/api/v1/targets", food.Targets{Calories: 1900})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, food.Targets{Calories: 1900, Protein: 150, Carbs: 240, Fat: 60}, decode[food.Targets](t, rec))
}

func TestGoalAndPrediction(t *testing.T) {
	s := newServer(t, false)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/weight/prediction", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/goal", map[string]any{"goal_weight": 0}).Code)

	rec := s.do(http.MethodPut, "/api/v1/goal", map[string]any{"goal_weight": 70})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[services.GoalView](t, rec).Restarted)

	rec = s.do(http.MethodGet, "/api/v1/weight/prediction", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"insufficient_data"`)

	for _, path := range []string{"/api/v1/goal", "/api/v1/weight/series", "/api/v1/stats/weekly", "/api/v1/stats", "/api/v1/achievements", "/api/v1/photos", "/api/v1/my-foods", "/api/v1/targets", "/api/v1/user"} {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path, nil).Code, path)
	}
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/achievements/evaluate", nil).Code)
}

func TestOnboardingAndPhotos(t *testing.T) {
	s := newServer(t, false)

	rec := s.do(http.MethodPost, "/api/v1/profile", map[string]any{
		"age": 30, "gender": "male", "height": 180, "weight": 80, "activity_level": 1.55, "goal": "lose",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2259.0, decode[services.OnboardingResult](t, rec).Plan.Targets.Calories)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/photos", services.AddPhotoRequest{Image: "not-an-image"}).Code)
	rec = s.do(http.MethodPost, "/api/v1/photos", services.AddPhotoRequest{Image: "data:image/jpeg;base64,/9j/4AAQ"})
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decode[services.AddPhotoResult](t, rec)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/photos/"+added.Photo.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/photos/"+added.Photo.ID, nil).Code)
}

func TestExportCSV(t *testing.T) {
	s := newServer(t, false)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/foods", services.FoodRequest{Name: "Apple", Calories: 95}).Code)

	rec := s.do(http.MethodGet, "/api/v1/export.csv?type=foods", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="fitflow-food-logs-2025-05-05.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "2025-05-05,Apple,95,0,0,0,snack")

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/export.csv?type=pdf", nil).Code)
}

func TestRegisterDevice(t *testing.T) {
	s := newServer(t, false)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodPost, "/api/v1/devices", notification.RegisterDeviceRequest{Token: "t"}).Code)

	s = newServer(t, true)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/devices", notification.RegisterDeviceRequest{Token: "t", Platform: "symbian"}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/devices", notification.RegisterDeviceRequest{Token: "t", Platform: "ios"}).Code)
	assert.Len(t, s.devices.got, 1)
}

func signWebhook(t *testing.T, id string, ts time.Time, body []byte) http.Header {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(webhookSecret, "whsec_"))
	require.NoError(t, err)
	stamp := strconv.FormatInt(ts.Unix(), 10)
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.%s", id, stamp, body)

	h := http.Header{}
	h.Set("svix-id", id)
	h.Set("svix-timestamp", stamp)
	h.Set("svix-signature", "v1,bm90LXRoZS1zaWduYXR1cmU= v1,"+base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	return h
}

func TestClerkWebhook(t *testing.T) {
	body := []byte(`{"type":"user.created","object":"event","data":{
		"id":"user_clerk_9","first_name":"Mila","last_name":"Ivanova",
		"primary_email_address_id":"idn_2",
		"email_addresses":[
			{"id":"idn_1","email_address":"old@example.com","verification":{"status":"unverified"}},
			{"id":"idn_2","email_address":"mila@example.com","verification":{"status":"verified"}}
		]}}`)

	// the handler checks timestamps against the wall clock
	wall := time.Now()
	tests := []struct {
		name     string
		header   http.Header
		wantCode int
	}{
		{"missing headers", http.Header{}, http.StatusUnauthorized},
		{"stale timestamp", signWebhook(t, "msg_1", wall.Add(-10*time.Minute), body), http.StatusUnauthorized},
		{"tampered", signWebhook(t, "msg_other", wall, []byte("{}")), http.StatusUnauthorized},
		{"valid", signWebhook(t, "msg_1", wall, body), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, false)
			req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(body))
			for k, v := range tt.header {
				req.Header[k] = v
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)

			doc, err := s.mem.GetUserDocument(context.Background(), "user_clerk_9")
			if tt.wantCode != http.StatusOK {
				assert.ErrorIs(t, err, store.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "mila@example.com", doc.Email)
			assert.True(t, doc.EmailVerified)
			assert.Equal(t, "Mila", doc.FirstName)
			require.NotNil(t, doc.Targets)
			assert.Equal(t, food.DefaultTargets, *doc.Targets)
		})
	}
}
