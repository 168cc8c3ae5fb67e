package model

// ChannelStats aggregates a channel's totals for the dashboard.
type ChannelStats struct {
	TotalVideos      int64 `db:"total_videos" json:"totalVideos"`
	TotalViews       int64 `db:"total_views" json:"totalViews"`
	TotalLikes       int64 `db:"total_likes" json:"totalLikes"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}
