package store

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/zyzyva/square-client/pkg/billing/models"
)

// SubscriptionStore is the persistence collaborator for subscription
// records. Queries run through gorm; schema ownership stays with the
// embedding application.
type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{
		db: db,
	}
}

// Update persists the given field map and applies it to the passed record.
func (s *SubscriptionStore) Update(sub *models.Subscription, fields map[string]interface{}) error {
	if err := s.db.Model(sub).Updates(fields).Error; err != nil {
		return errors.Wrapf(err, "failed to update subscription %d", sub.ID)
	}

	return nil
}

// AllWithRemoteID returns the records that exist upstream and so can be
// synced against Square.
func (s *SubscriptionStore) AllWithRemoteID() ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := s.db.Where("square_subscription_id IS NOT NULL").Find(&subs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to fetch subscriptions with remote ids")
	}

	return subs, nil
}

// BySquareID finds the local record for a remote subscription id,
// (nil, nil) when no such record exists.
func (s *SubscriptionStore) BySquareID(squareSubID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Where("square_subscription_id = ?", squareSubID).First(&sub).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch subscription by square id %s", squareSubID)
	}

	return &sub, nil
}
