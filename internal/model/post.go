package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TitleMaxLen   = 200
	ExcerptMaxLen = 300
)

// Post 博文；AuthorID 创建后不可变更
type Post struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Content       string    `gorm:"type:text;not null"`
	Excerpt       string    `gorm:"type:varchar(300)"`
	AuthorID      string    `gorm:"type:varchar(36);index:idx_post_author;not null"`
	Author        *User     `gorm:"foreignKey:AuthorID"`
	Tags          []string  `gorm:"type:text;serializer:json"`
	FeaturedImage string    `gorm:"type:varchar(1024);not null;default:''"`
	Published     bool      `gorm:"index:idx_post_published_created;not null"`
	Likes         int64     `gorm:"not null;default:0"`
	Views         int64     `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"index:idx_post_published_created"`
	UpdatedAt     time.Time
}

func (Post) TableName() string { return "posts" }

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return nil
}
