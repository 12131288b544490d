package models

import (
	"fmt"

	"github.com/yjkim/hue/internal/types"
)

// User is the identity consumed for ownership checks. Rows are provisioned by
// the external account system; this module only reads them.
type User struct {
	ID          uint64 `gorm:"primaryKey"`
	Username    string `gorm:"uniqueIndex;size:150;not null"`
	IsSuperuser bool   `gorm:"not null;default:false"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// Document is the ownership record embedded in every persisted user document.
// The owner is the sole authority for access control and is never transferred.
// IsDesign distinguishes an authored script from a captured job submission and
// is set at creation time only.
type Document struct {
	OwnerID  uint64 `gorm:"not null;index"`
	IsDesign bool   `gorm:"default:true;index"`
}

// IsEditable reports whether user may modify the document: superusers and the
// owner only.
func (d Document) IsEditable(user User) bool {
	return user.IsSuperuser || d.OwnerID == user.ID
}

// CanEditOrError returns nil when user may modify the document, otherwise a
// permission error with a user-facing message.
func (d Document) CanEditOrError(user User) error {
	if d.IsEditable(user) {
		return nil
	}
	return types.NewPermissionDenied(
		fmt.Sprintf("Only superusers and %s are allowed to modify this document.", user.Username))
}
