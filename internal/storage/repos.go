package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	user := &User{
		ID:       uuid.NewString(),
		Username: username,
		Password: passwordHash,
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

type LocationRepo struct {
	db *gorm.DB
}

func NewLocationRepo(db *gorm.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Create(ctx context.Context, loc *SavedLocation) (*SavedLocation, error) {
	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	if loc.Type == "" {
		loc.Type = "Not specified"
	}
	if err := r.db.WithContext(ctx).Create(loc).Error; err != nil {
		return nil, fmt.Errorf("failed to save location: %w", err)
	}
	return loc, nil
}

func (r *LocationRepo) ListByUser(ctx context.Context, userID string) ([]SavedLocation, error) {
	var locations []SavedLocation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// Delete removes a location owned by userID. ErrNotFound covers both a
// missing row and one belonging to someone else.
func (r *LocationRepo) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&SavedLocation{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type TripPlanRepo struct {
	db *gorm.DB
}

func NewTripPlanRepo(db *gorm.DB) *TripPlanRepo {
	return &TripPlanRepo{db: db}
}

func (r *TripPlanRepo) Create(ctx context.Context, plan *TripPlan) (*TripPlan, error) {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.Destination == "" {
		plan.Destination = "Unknown"
	}
	if plan.Budget == "" {
		plan.Budget = "Medium"
	}
	if plan.TripStage == 0 {
		plan.TripStage = 1
	}
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to save trip plan: %w", err)
	}
	return plan, nil
}

func (r *TripPlanRepo) ListByUser(ctx context.Context, userID string) ([]TripPlan, error) {
	var plans []TripPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trip plans: %w", err)
	}
	return plans, nil
}

type InsightRepo struct {
	db *gorm.DB
}

func NewInsightRepo(db *gorm.DB) *InsightRepo {
	return &InsightRepo{db: db}
}

// InsightFilter narrows a hidden-gem search; zero values are ignored.
type InsightFilter struct {
	City    string
	Country string
	Type    string
	Tags    []string
}

const insightLimit = 20

// Search returns up to 20 matching insights, verified entries first, newest
// first within each group. Tag matching is any-of.
func (r *InsightRepo) Search(ctx context.Context, filter InsightFilter) ([]LocalInsight, error) {
	query := r.db.WithContext(ctx).Model(&LocalInsight{})

	if filter.City != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(filter.City)+"%")
	}
	if filter.Country != "" {
		query = query.Where("LOWER(country) LIKE ?", "%"+strings.ToLower(filter.Country)+"%")
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var candidates []LocalInsight
	err := query.Order("verified DESC").Order("created_at DESC").Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search insights: %w", err)
	}

	// Tags live in a JSON column; any-of matching is applied here to stay
	// portable across postgres and the sqlite test driver.
	results := make([]LocalInsight, 0, insightLimit)
	for _, insight := range candidates {
		if len(filter.Tags) > 0 && !hasAnyTag(insight.Tags, filter.Tags) {
			continue
		}
		results = append(results, insight)
		if len(results) == insightLimit {
			break
		}
	}
	return results, nil
}

func hasAnyTag(have []string, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
