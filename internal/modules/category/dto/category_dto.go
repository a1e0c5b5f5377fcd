package dto

import "anoa.com/productcatalog/internal/entity"

// CategoryRequest is the body of POST and PUT /api/categories. The length
// limits mirror entity.CategoryNameMaxLen and entity.CategoryDescriptionMaxLen.
type CategoryRequest struct {
	ID          uint   `json:"id"`
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"required,max=200"`
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CategoryRequest) ToEntity() *entity.Category {
	return &entity.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
	}
}

func FromEntity(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

func FromEntities(categories []*entity.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, FromEntity(c))
	}
	return out
}
