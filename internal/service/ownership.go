package service

import "github.com/Rahanur19/youStream/internal/model"

// AssertOwner fails with ErrNotOwner unless actingUserID owns entity. It is
// called before every update or delete of a video, community post, comment
// or playlist.
func AssertOwner(entity model.Owned, actingUserID string) error {
	if entity == nil || actingUserID == "" || entity.OwnerID() != actingUserID {
		return model.ErrNotOwner
	}
	return nil
}
