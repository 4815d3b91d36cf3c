package models

import (
	"time"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

type CreatePostRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Platform    Platform    `json:"platform" validate:"required,oneof=instagram youtube linkedin twitter"`
	ContentType ContentType `json:"content_type" validate:"required,oneof=reel carousel static video thread short"`
	Status      Status      `json:"status" validate:"omitempty,oneof=idea scripted shooting editing review ready published"`
	Priority    Priority    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags        []string    `json:"tags"`

	Hook     string   `json:"hook"`
	Script   string   `json:"script"`
	CTA      string   `json:"cta"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`

	ScheduledAt *time.Time `json:"scheduled_at"`
	PublishedAt *time.Time `json:"published_at"`

	ThumbnailDone     bool `json:"thumbnail_done"`
	CaptionsFinalized bool `json:"captions_finalized"`
	HashtagsAdded     bool `json:"hashtags_added"`
	Exported          bool `json:"exported"`
	Uploaded          bool `json:"uploaded"`
	ScriptFinal       bool `json:"script_final"`
}

// UpdatePostRequest is a partial update. Only fields sent with a non-null
// value are written; absent and null fields leave the stored value alone.
type UpdatePostRequest struct {
	Title       Optional[string]      `json:"title"`
	Description Optional[string]      `json:"description"`
	Platform    Optional[Platform]    `json:"platform"`
	ContentType Optional[ContentType] `json:"content_type"`
	Status      Optional[Status]      `json:"status"`
	Priority    Optional[Priority]    `json:"priority"`
	Tags        Optional[[]string]    `json:"tags"`

	Hook     Optional[string]   `json:"hook"`
	Script   Optional[string]   `json:"script"`
	CTA      Optional[string]   `json:"cta"`
	Caption  Optional[string]   `json:"caption"`
	Hashtags Optional[[]string] `json:"hashtags"`

	ScheduledAt Optional[time.Time] `json:"scheduled_at"`
	PublishedAt Optional[time.Time] `json:"published_at"`

	ThumbnailDone     Optional[bool] `json:"thumbnail_done"`
	CaptionsFinalized Optional[bool] `json:"captions_finalized"`
	HashtagsAdded     Optional[bool] `json:"hashtags_added"`
	Exported          Optional[bool] `json:"exported"`
	Uploaded          Optional[bool] `json:"uploaded"`
	ScriptFinal       Optional[bool] `json:"script_final"`
}

// FieldChange is one column/document field written by an update. Values are
// plain Go types (string, []string, bool, time.Time) so every backend can
// bind them directly.
type FieldChange struct {
	Name  string
	Value interface{}
}

// Changes lists the fields an update writes, keyed by their stored names.
func (u *UpdatePostRequest) Changes() []FieldChange {
	var changes []FieldChange
	add := func(name string, value interface{}) {
		changes = append(changes, FieldChange{Name: name, Value: value})
	}

	if v, ok := u.Title.Get(); ok {
		add("title", v)
	}
	if v, ok := u.Description.Get(); ok {
		add("description", v)
	}
	if v, ok := u.Platform.Get(); ok {
		add("platform", string(v))
	}
	if v, ok := u.ContentType.Get(); ok {
		add("content_type", string(v))
	}
	if v, ok := u.Status.Get(); ok {
		add("status", string(v))
	}
	if v, ok := u.Priority.Get(); ok {
		add("priority", string(v))
	}
	if v, ok := u.Tags.Get(); ok {
		add("tags", nonNil(v))
	}
	if v, ok := u.Hook.Get(); ok {
		add("hook", v)
	}
	if v, ok := u.Script.Get(); ok {
		add("script", v)
	}
	if v, ok := u.CTA.Get(); ok {
		add("cta", v)
	}
	if v, ok := u.Caption.Get(); ok {
		add("caption", v)
	}
	if v, ok := u.Hashtags.Get(); ok {
		add("hashtags", nonNil(v))
	}
	if v, ok := u.ScheduledAt.Get(); ok {
		add("scheduled_at", v.UTC().Truncate(time.Millisecond))
	}
	if v, ok := u.PublishedAt.Get(); ok {
		add("published_at", v.UTC().Truncate(time.Millisecond))
	}
	if v, ok := u.ThumbnailDone.Get(); ok {
		add("thumbnail_done", v)
	}
	if v, ok := u.CaptionsFinalized.Get(); ok {
		add("captions_finalized", v)
	}
	if v, ok := u.HashtagsAdded.Get(); ok {
		add("hashtags_added", v)
	}
	if v, ok := u.Exported.Get(); ok {
		add("exported", v)
	}
	if v, ok := u.Uploaded.Get(); ok {
		add("uploaded", v)
	}
	if v, ok := u.ScriptFinal.Get(); ok {
		add("script_final", v)
	}

	return changes
}

// ApplyTo writes the update's fields onto an in-memory post.
func (u *UpdatePostRequest) ApplyTo(p *Post) {
	if v, ok := u.Title.Get(); ok {
		p.Title = v
	}
	if v, ok := u.Description.Get(); ok {
		p.Description = v
	}
	if v, ok := u.Platform.Get(); ok {
		p.Platform = v
	}
	if v, ok := u.ContentType.Get(); ok {
		p.ContentType = v
	}
	if v, ok := u.Status.Get(); ok {
		p.Status = v
	}
	if v, ok := u.Priority.Get(); ok {
		p.Priority = v
	}
	if v, ok := u.Tags.Get(); ok {
		p.Tags = append([]string{}, v...)
	}
	if v, ok := u.Hook.Get(); ok {
		p.Hook = v
	}
	if v, ok := u.Script.Get(); ok {
		p.Script = v
	}
	if v, ok := u.CTA.Get(); ok {
		p.CTA = v
	}
	if v, ok := u.Caption.Get(); ok {
		p.Caption = v
	}
	if v, ok := u.Hashtags.Get(); ok {
		p.Hashtags = append([]string{}, v...)
	}
	if v, ok := u.ScheduledAt.Get(); ok {
		t := v.UTC().Truncate(time.Millisecond)
		p.ScheduledAt = &t
	}
	if v, ok := u.PublishedAt.Get(); ok {
		t := v.UTC().Truncate(time.Millisecond)
		p.PublishedAt = &t
	}
	if v, ok := u.ThumbnailDone.Get(); ok {
		p.ThumbnailDone = v
	}
	if v, ok := u.CaptionsFinalized.Get(); ok {
		p.CaptionsFinalized = v
	}
	if v, ok := u.HashtagsAdded.Get(); ok {
		p.HashtagsAdded = v
	}
	if v, ok := u.Exported.Get(); ok {
		p.Exported = v
	}
	if v, ok := u.Uploaded.Get(); ok {
		p.Uploaded = v
	}
	if v, ok := u.ScriptFinal.Get(); ok {
		p.ScriptFinal = v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
