package services

// Engine wires every service of the reward engine over one set of repositories.
type Engine struct {
	Users         *UserService
	Badges        *BadgeService
	Notifications *NotificationService
	Progression   *ProgressionService
	Missions      *MissionService
	Actions       *ActionService
	Streaks       *StreakService
	Store         *StoreService
	Servers       *ServerService
}

func NewEngine(repos Repositories) *Engine {
	e := &Engine{}
	e.Users = NewUserService(repos.Users)
	e.Badges = NewBadgeService(repos.Users)
	e.Notifications = NewNotificationService(repos.Notifications)
	e.Progression = NewProgressionService(repos.Users, e.Badges, e.Notifications)
	e.Missions = NewMissionService(repos, e.Badges, e.Notifications)
	e.Actions = NewActionService(repos, e.Progression, e.Badges, e.Missions)
	e.Streaks = NewStreakService(repos.Users, e.Notifications, e.Missions)
	e.Store = NewStoreService(repos, e.Actions)
	e.Servers = NewServerService(repos.Servers, e.Actions)
	return e
}
