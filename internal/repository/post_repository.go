package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-blog/internal/model"
)

// PostListQuery 列表查询参数（由 service.BuildListQuery 构造）
type PostListQuery struct {
	PublishedOnly bool
	OrderBy       string
	Offset        int
	Limit         int
}

// PostRepository 博文仓储
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, q PostListQuery) ([]*model.Post, int64, error)
	Update(ctx context.Context, p *model.Post) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

// authorColumns limits the preloaded author to its public fields.
func authorColumns(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return r.db.WithContext(ctx).Omit("Author").Create(p).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("Author", authorColumns).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context, q PostListQuery) ([]*model.Post, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if q.PublishedOnly {
			return db.Where("published = ?", true)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var res []*model.Post
	err := r.db.WithContext(ctx).
		Scopes(filter).
		Preload("Author", authorColumns).
		Order(q.OrderBy).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&res).Error
	if err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

// Update 写回可编辑字段；author、likes、views 不在此处修改
func (r *postRepository) Update(ctx context.Context, p *model.Post) error {
	res := r.db.WithContext(ctx).
		Model(p).
		Select("title", "content", "excerpt", "tags", "featured_image", "published", "updated_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews 原子自增浏览数
func (r *postRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, r.db, id, "views")
}

// IncrementLikes 原子自增点赞数并返回最新值
func (r *postRepository) IncrementLikes(ctx context.Context, id string) (int64, error) {
	var likes int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.increment(ctx, tx, id, "likes"); err != nil {
			return err
		}
		var p model.Post
		if err := tx.Select("likes").Where("id = ?", id).First(&p).Error; err != nil {
			return notFound(err)
		}
		likes = p.Likes
		return nil
	})
	return likes, err
}

func (r *postRepository) increment(ctx context.Context, db *gorm.DB, id, column string) error {
	res := db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
