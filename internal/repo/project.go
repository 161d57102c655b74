package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/projects_api/internal/models"
)

// nextProjectID returns the smallest positive id not used by any project.
func nextProjectID(tx *gorm.DB) (uint, error) {
	var used []uint
	if err := tx.Model(&models.Project{}).Order("id ASC").Pluck("id", &used).Error; err != nil {
		return 0, err
	}
	next := uint(1)
	for _, id := range used {
		if id != next {
			return next, nil
		}
		next++
	}
	return next, nil
}

func nameTaken(tx *gorm.DB, name string, excludeID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Project{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateProject(ctx context.Context, prod *models.Project) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, prod.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrProjectNameTaken
		}

		id, err := nextProjectID(tx)
		if err != nil {
			return err
		}
		prod.ID = id
		return tx.Create(prod).Error
	})
}

func (r *GormRepo) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ListProjects(ctx context.Context, ascending bool) ([]models.Project, error) {
	order := "id DESC"
	if ascending {
		order = "id ASC"
	}
	items := make([]models.Project, 0)
	if err := r.DB.WithContext(ctx).Order(order).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveProject(ctx context.Context, prod *models.Project) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, prod.Name, prod.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrProjectNameTaken
		}
		return tx.Save(prod).Error
	})
}

// DeleteProject removes the project and returns it as it was before deletion.
func (r *GormRepo) DeleteProject(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
