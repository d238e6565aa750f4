package handler

import (
	"time"

	"github.com/d60-Lab/gin-blog/internal/model"
)

type authorView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type postView struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Excerpt       string      `json:"excerpt"`
	Author        *authorView `json:"author"`
	Tags          []string    `json:"tags"`
	FeaturedImage string      `json:"featuredImage"`
	Published     bool        `json:"published"`
	Likes         int64       `json:"likes"`
	Views         int64       `json:"views"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// userView 对外的用户信息，永不包含密码
type userView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	Avatar    string     `json:"avatar"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func toPostView(p *model.Post) postView {
	v := postView{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		Tags:          p.Tags,
		FeaturedImage: p.FeaturedImage,
		Published:     p.Published,
		Likes:         p.Likes,
		Views:         p.Views,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if p.Author != nil {
		v.Author = &authorView{ID: p.Author.ID, Name: p.Author.Name, Email: p.Author.Email}
	}
	return v
}

func toPostViews(ps []*model.Post) []postView {
	out := make([]postView, len(ps))
	for i, p := range ps {
		out[i] = toPostView(p)
	}
	return out
}

func toUserView(u *model.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Avatar: u.Avatar}
}

func toUserViews(us []*model.User) []userView {
	out := make([]userView, len(us))
	for i, u := range us {
		v := toUserView(u)
		created := u.CreatedAt
		v.CreatedAt = &created
		out[i] = v
	}
	return out
}
