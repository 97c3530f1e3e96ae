package models

// NoActivityStatus is the status the tracker reports when no window is focused.
const NoActivityStatus = "no activity"

// CurrentActivity is the foreground window the tracker is currently timing
type CurrentActivity struct {
	Status          string `json:"status,omitempty"`
	AppName         string `json:"app_name"`
	WindowTitle     string `json:"window_title"`
	ProcessPath     string `json:"process_path,omitempty"`
	StartTime       string `json:"start_time,omitempty"`
	CurrentDuration int64  `json:"current_duration,omitempty"`
}

// Idle reports whether the tracker has nothing in the foreground
func (a CurrentActivity) Idle() bool {
	return a.Status == NoActivityStatus
}

// Stats holds the aggregate totals for a period
type Stats struct {
	Date               string           `json:"date,omitempty"`
	TotalActivities    int              `json:"total_activities,omitempty"`
	TotalActiveSeconds int64            `json:"total_active_seconds"`
	TotalIdleSeconds   int64            `json:"total_idle_seconds"`
	StatsByApp         map[string]int64 `json:"stats_by_app"`
}

// ChildActivity is one enriched activity (tab, document, project) inside an application
type ChildActivity struct {
	Name     string `json:"name"`
	Duration int64  `json:"duration"`
}

// AppGroup is an application with its child activity breakdown
type AppGroup struct {
	AppName      string          `json:"app_name"`
	TotalSeconds int64           `json:"total_seconds"`
	Children     []ChildActivity `json:"children"`
}

// GroupedStats is the grouped top-apps response; groups arrive ranked
type GroupedStats struct {
	Period string     `json:"period,omitempty"`
	Groups []AppGroup `json:"groups"`
}

// HourlyStats is the activity timeline for a period
type HourlyStats struct {
	Period       string   `json:"period,omitempty"`
	HourlyData   []int64  `json:"hourly_data,omitempty"`
	TimelineData []int64  `json:"timeline_data,omitempty"`
	Labels       []string `json:"labels,omitempty"`
}

// Series returns the timeline buckets, preferring timeline_data over hourly_data
func (h HourlyStats) Series() []int64 {
	if len(h.TimelineData) > 0 {
		return h.TimelineData
	}
	return h.HourlyData
}

// Health is the liveness probe response
type Health struct {
	Status string `json:"status"`
	Time   string `json:"time,omitempty"`
}
