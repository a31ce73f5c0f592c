package domain

// Role роль пользователя у identity provider
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid проверяет роль
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal аутентифицированный пользователь запроса
type Principal struct {
	UserID int64
	Role   Role
}

// IsAdmin true для администратора
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Action операция, требующая авторизации
type Action string

const (
	ActionManageCatalog      Action = "catalog.manage"
	ActionViewInactive       Action = "catalog.view_inactive"
	ActionManageSchedule     Action = "schedule.manage"
	ActionViewAppointment    Action = "appointment.view"
	ActionListAllAppointment Action = "appointment.list_all"
	ActionEditAppointment    Action = "appointment.edit"
	ActionCancelAppointment  Action = "appointment.cancel"
	ActionSetStatus          Action = "appointment.set_status"
	ActionDeleteAppointment  Action = "appointment.delete"
	ActionReadNotification   Action = "notification.read"
)

// ownerActions действия, доступные владельцу ресурса
var ownerActions = map[Action]bool{
	ActionViewAppointment:   true,
	ActionEditAppointment:   true,
	ActionCancelAppointment: true,
	ActionReadNotification:  true,
}

// Can единая проверка прав: администратору разрешено всё,
// пользователю - действия над своими ресурсами (ownerID == UserID).
// Для действий без владельца передаётся ownerID = 0.
func (p Principal) Can(action Action, ownerID int64) bool {
	if p.IsAdmin() {
		return true
	}
	if p.UserID <= 0 {
		return false
	}
	return ownerActions[action] && ownerID == p.UserID
}
