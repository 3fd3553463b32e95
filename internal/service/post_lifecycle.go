package service

import (
	"github.com/maheshrc27/postgate/internal/models"
)

// approvedStatus returns the status a post moves to when approved. An
// approved post stays approved; a published post cannot go back.
func approvedStatus(current string) (string, error) {
	switch current {
	case models.PostStatusPending, models.PostStatusApproved:
		return models.PostStatusApproved, nil
	case models.PostStatusPublished:
		return "", models.NewInvalidStateError("post is already published")
	default:
		return "", models.NewInvalidStateError("post has unknown status " + current)
	}
}

// checkPublishable allows approved posts, and published posts only when
// the caller forces a republish.
func checkPublishable(current string, force bool) error {
	switch current {
	case models.PostStatusApproved:
		return nil
	case models.PostStatusPublished:
		if force {
			return nil
		}
		return models.NewInvalidStateError("post is already published; set force to republish")
	case models.PostStatusPending:
		return models.NewInvalidStateError("post must be approved before publishing")
	default:
		return models.NewInvalidStateError("post has unknown status " + current)
	}
}
