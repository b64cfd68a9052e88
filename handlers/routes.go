package handlers

import (
	"net/http"

	"fitFlowAPI/services"

	"github.com/gorilla/mux"
)

// Set holds one handler per API area.
type Set struct {
	User         *UserHandler
	CheckIn      *CheckInHandler
	Goal         *GoalHandler
	Food         *FoodHandler
	Achievement  *AchievementHandler
	Photo        *PhotoHandler
	Export       *ExportHandler
	Notification *NotificationHandler
	Webhook      *WebhookHandler
}

func NewSet(s *services.Services, registrar DeviceRegistrar, webhookSecret string) *Set {
	return &Set{
		User:         NewUserHandler(s.Users),
		CheckIn:      NewCheckInHandler(s.CheckIns),
		Goal:         NewGoalHandler(s.Goals, s.Stats),
		Food:         NewFoodHandler(s.Foods),
		Achievement:  NewAchievementHandler(s.Achievements),
		Photo:        NewPhotoHandler(s.Photos),
		Export:       NewExportHandler(s.Export),
		Notification: NewNotificationHandler(registrar),
		Webhook:      NewWebhookHandler(s.Users, webhookSecret),
	}
}

// RegisterProtected mounts the authenticated /api/v1 routes on protected.
func (h *Set) RegisterProtected(protected *mux.Router) {
	protected.HandleFunc("/user", h.User.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/user", h.User.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/profile", h.User.SaveOnboarding).Methods(http.MethodPost)

	protected.HandleFunc("/streak", h.CheckIn.GetStreak).Methods(http.MethodGet)
	protected.HandleFunc("/streak/reset", h.CheckIn.ResetStreak).Methods(http.MethodPost)
	protected.HandleFunc("/streak/reset-week", h.CheckIn.ResetWeek).Methods(http.MethodPost)
	protected.HandleFunc("/checkins", h.CheckIn.CheckIn).Methods(http.MethodPost)
	protected.HandleFunc("/checkins/{date}", h.CheckIn.GetHistory).Methods(http.MethodGet)
	protected.HandleFunc("/checkins/{date}", h.CheckIn.DeleteCheckIn).Methods(http.MethodDelete)

	protected.HandleFunc("/stats", h.Goal.GetUserStats).Methods(http.MethodGet)
	protected.HandleFunc("/stats/weekly", h.Goal.GetWeeklyStats).Methods(http.MethodGet)
	protected.HandleFunc("/weight/series", h.Goal.GetWeightSeries).Methods(http.MethodGet)
	protected.HandleFunc("/weight/prediction", h.Goal.GetPrediction).Methods(http.MethodGet)
	protected.HandleFunc("/goal", h.Goal.GetGoal).Methods(http.MethodGet)
	protected.HandleFunc("/goal", h.Goal.SetGoal).Methods(http.MethodPut)

	protected.HandleFunc("/targets", h.Food.GetTargets).Methods(http.MethodGet)
	protected.HandleFunc("/targets", h.Food.SetTargets).Methods(http.MethodPut)
	protected.HandleFunc("/foods", h.Food.GetFoods).Methods(http.MethodGet)
	protected.HandleFunc("/foods", h.Food.AddFood).Methods(http.MethodPost)
	protected.HandleFunc("/foods/{index:[0-9]+}", h.Food.EditFood).Methods(http.MethodPut)
	protected.HandleFunc("/foods/{index:[0-9]+}", h.Food.RemoveFood).Methods(http.MethodDelete)
	protected.HandleFunc("/foods/{index:[0-9]+}/restore", h.Food.RestoreFood).Methods(http.MethodPost)
	protected.HandleFunc("/recent-foods", h.Food.GetRecentFoods).Methods(http.MethodGet)
	protected.HandleFunc("/my-foods", h.Food.GetMyFoods).Methods(http.MethodGet)
	protected.HandleFunc("/my-foods", h.Food.SaveMyFood).Methods(http.MethodPost)
	protected.HandleFunc("/my-foods/{id}", h.Food.DeleteMyFood).Methods(http.MethodDelete)
	protected.HandleFunc("/my-foods/{id}/add", h.Food.AddMyFood).Methods(http.MethodPost)

	protected.HandleFunc("/achievements", h.Achievement.GetAchievements).Methods(http.MethodGet)
	protected.HandleFunc("/achievements/evaluate", h.Achievement.GetAchievements).Methods(http.MethodPost)

	protected.HandleFunc("/photos", h.Photo.GetPhotos).Methods(http.MethodGet)
	protected.HandleFunc("/photos", h.Photo.AddPhoto).Methods(http.MethodPost)
	protected.HandleFunc("/photos/{id}", h.Photo.DeletePhoto).Methods(http.MethodDelete)

	protected.HandleFunc("/export.csv", h.Export.ExportCSV).Methods(http.MethodGet)

	protected.HandleFunc("/devices", h.Notification.RegisterDevice).Methods(http.MethodPost)
}
