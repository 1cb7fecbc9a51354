package models

// UserModel mirrors the company directory. Populated by an external sync,
// read-only from this service's perspective; the worker uses it to resolve
// notification recipients.
type UserModel struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"size:255;not null;uniqueIndex"`
	DisplayName string `gorm:"size:100;not null"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// UserRoleModel maps users to approval-capable roles. Populated by an external
// directory sync, read-only from this service's perspective.
type UserRoleModel struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    uint  `gorm:"not null;index;uniqueIndex:uq_user_role"`
	RoleID    uint  `gorm:"not null;index;uniqueIndex:uq_user_role"`
	CreatedAt int64 `gorm:"autoCreateTime:milli;not null"`
}

func (UserRoleModel) TableName() string {
	return "user_roles"
}

// ApproverProxyModel is a time-windowed delegation: the proxy may decide steps
// on the approver's behalf while the window is open. A null EndsAt means
// open-ended.
type ApproverProxyModel struct {
	ID         uint  `gorm:"primaryKey"`
	ApproverID uint  `gorm:"not null;index"`
	ProxyID    uint  `gorm:"not null;index"`
	StartsAt   int64 `gorm:"not null"`
	EndsAt     *int64
	CreatedAt  int64 `gorm:"autoCreateTime:milli;not null"`
}

func (ApproverProxyModel) TableName() string {
	return "approver_proxies"
}
