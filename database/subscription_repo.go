package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

type SubscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db}
}

// Add subscribes follower to author. Subscribing to oneself is always
// rejected, regardless of current state; a pair that is already present is
// AlreadyExists, with races resolved by the unique constraint.
func (r *SubscriptionRepo) Add(followerID, authorID uuid.UUID) (*models.Subscription, error) {
	if followerID == authorID {
		return nil, errs.NewSelfSubscription()
	}
	subscription := &models.Subscription{FollowerID: followerID, AuthorID: authorID}
	if err := r.db.Create(subscription).Error; err != nil {
		if isDuplicate(err) {
			return nil, errs.NewAlreadyExists("subscription")
		}
		return nil, err
	}
	return subscription, nil
}

// Remove unsubscribes follower from author. An absent pair is NotFound.
func (r *SubscriptionRepo) Remove(followerID, authorID uuid.UUID) error {
	res := r.db.Where("follower_id = ? AND author_id = ?", followerID, authorID).Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("subscription")
	}
	return nil
}

// Authors returns every author the follower subscribes to, with the authors'
// recipes preloaded for the subscriptions listing.
func (r *SubscriptionRepo) Authors(followerID uuid.UUID) ([]*models.User, error) {
	var authors []*models.User
	err := r.db.
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.follower_id = ?", followerID).
		Preload("Recipes").
		Order("users.username").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	for _, author := range authors {
		author.IsSubscribed = true
	}
	return authors, nil
}
