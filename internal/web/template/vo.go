package template

import (
	"gitee.com/autopuzzle/notification-center/internal/domain"
)

type Template struct {
	ID        int64    `json:"id"`
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Subject   string   `json:"subject,omitempty"`
	Message   string   `json:"message"`
	Variables []string `json:"variables"`
	IsActive  bool     `json:"is_active"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

func newTemplate(tpl domain.Template) Template {
	vars := tpl.Variables
	if vars == nil {
		vars = []string{}
	}
	res := Template{
		ID:        tpl.ID,
		Type:      tpl.Channel.String(),
		Name:      tpl.Name,
		Subject:   tpl.Subject,
		Message:   tpl.Message,
		Variables: vars,
		IsActive:  tpl.IsActive,
	}
	if !tpl.CreatedAt.IsZero() {
		res.CreatedAt = tpl.CreatedAt.UnixMilli()
	}
	if !tpl.UpdatedAt.IsZero() {
		res.UpdatedAt = tpl.UpdatedAt.UnixMilli()
	}
	return res
}

func newTemplates(list []domain.Template) []Template {
	res := make([]Template, 0, len(list))
	for _, tpl := range list {
		res = append(res, newTemplate(tpl))
	}
	return res
}

type SaveTemplateReq struct {
	ID        int64    `json:"id"`
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Subject   string   `json:"subject"`
	Message   string   `json:"message"`
	Variables []string `json:"variables"`
	IsActive  bool     `json:"is_active"`
}

func (r SaveTemplateReq) toDomain() domain.Template {
	return domain.Template{
		ID:        r.ID,
		Channel:   domain.Channel(r.Type),
		Name:      r.Name,
		Subject:   r.Subject,
		Message:   r.Message,
		Variables: r.Variables,
		IsActive:  r.IsActive,
	}
}

type ListTemplatesReq struct {
	Type       string `json:"type"`
	Search     string `json:"search"`
	ActiveOnly bool   `json:"active_only"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
}

type ListTemplatesResp struct {
	Total     int64      `json:"total"`
	Templates []Template `json:"templates"`
}

type ListActiveReq struct {
	Type string `json:"type"`
}

type IDReq struct {
	ID int64 `json:"id"`
}

type ToggleReq struct {
	ID     int64 `json:"id"`
	Active bool  `json:"active"`
}
