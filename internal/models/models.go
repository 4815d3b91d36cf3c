package models

import (
	"time"
)

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
)

var Platforms = []Platform{PlatformInstagram, PlatformYouTube, PlatformLinkedIn, PlatformTwitter}

func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if p == v {
			return true
		}
	}
	return false
}

type ContentType string

const (
	ContentTypeReel     ContentType = "reel"
	ContentTypeCarousel ContentType = "carousel"
	ContentTypeStatic   ContentType = "static"
	ContentTypeVideo    ContentType = "video"
	ContentTypeThread   ContentType = "thread"
	ContentTypeShort    ContentType = "short"
)

var ContentTypes = []ContentType{
	ContentTypeReel, ContentTypeCarousel, ContentTypeStatic,
	ContentTypeVideo, ContentTypeThread, ContentTypeShort,
}

func (c ContentType) Valid() bool {
	for _, v := range ContentTypes {
		if c == v {
			return true
		}
	}
	return false
}

// Status is a stage of the editorial workflow. Statuses lists them in
// workflow order, idea first.
type Status string

const (
	StatusIdea      Status = "idea"
	StatusScripted  Status = "scripted"
	StatusShooting  Status = "shooting"
	StatusEditing   Status = "editing"
	StatusReview    Status = "review"
	StatusReady     Status = "ready"
	StatusPublished Status = "published"
)

var Statuses = []Status{
	StatusIdea, StatusScripted, StatusShooting, StatusEditing,
	StatusReview, StatusReady, StatusPublished,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// InProgress reports whether the status is one of the production stages
// between idea and ready.
func (s Status) InProgress() bool {
	switch s {
	case StatusScripted, StatusShooting, StatusEditing, StatusReview:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

type User struct {
	UserID       string    `json:"id" bson:"id" db:"id"`
	Email        string    `json:"email" bson:"email" db:"email"`
	Username     string    `json:"username" bson:"username" db:"username"`
	PasswordHash string    `json:"-" bson:"password_hash" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

type Post struct {
	PostID      string      `json:"id" bson:"id"`
	UserID      string      `json:"user_id" bson:"user_id"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	Platform    Platform    `json:"platform" bson:"platform"`
	ContentType ContentType `json:"content_type" bson:"content_type"`
	Status      Status      `json:"status" bson:"status"`
	Priority    Priority    `json:"priority" bson:"priority"`
	Tags        []string    `json:"tags" bson:"tags"`

	Hook     string   `json:"hook" bson:"hook"`
	Script   string   `json:"script" bson:"script"`
	CTA      string   `json:"cta" bson:"cta"`
	Caption  string   `json:"caption" bson:"caption"`
	Hashtags []string `json:"hashtags" bson:"hashtags"`

	ScheduledAt *time.Time `json:"scheduled_at" bson:"scheduled_at"`
	PublishedAt *time.Time `json:"published_at" bson:"published_at"`

	ThumbnailDone     bool `json:"thumbnail_done" bson:"thumbnail_done"`
	CaptionsFinalized bool `json:"captions_finalized" bson:"captions_finalized"`
	HashtagsAdded     bool `json:"hashtags_added" bson:"hashtags_added"`
	Exported          bool `json:"exported" bson:"exported"`
	Uploaded          bool `json:"uploaded" bson:"uploaded"`
	ScriptFinal       bool `json:"script_final" bson:"script_final"`

	ThumbnailURL string `json:"thumbnail_url" bson:"thumbnail_url"`
	ThumbnailKey string `json:"-" bson:"thumbnail_key"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Normalize replaces nil slices with empty ones so that lists are never
// serialized as null.
func (p *Post) Normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Hashtags == nil {
		p.Hashtags = []string{}
	}
}

type PostFilter struct {
	Platform    Platform
	Status      Status
	ContentType ContentType
	Priority    Priority
	Tag         string
	Search      string

	Limit  int
	Offset int
}

type PostPage struct {
	Posts  []*Post
	Total  int64
	Limit  int
	Offset int
}

type Stats struct {
	Total      int64              `json:"total"`
	Ideas      int64              `json:"ideas"`
	InProgress int64              `json:"in_progress"`
	Ready      int64              `json:"ready"`
	Published  int64              `json:"published"`
	ByPlatform map[Platform]int64 `json:"by_platform"`
	ByStatus   map[Status]int64   `json:"by_status"`
}
