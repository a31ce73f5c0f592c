package domain

// transitionMap допустимые переходы: текущий статус -> целевые статусы
var transitionMap = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted, StatusCancelled},
}

// CanTransition проверяет переход по таблице, без учёта роли
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range transitionMap[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus rejected, cancelled и completed
func IsTerminalStatus(s AppointmentStatus) bool {
	return len(transitionMap[s]) == 0
}

// NotifiesOwner переходы в эти статусы порождают уведомление владельцу
func NotifiesOwner(s AppointmentStatus) bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// adminOnlyTargets статусы, в которые может перевести только администратор
var adminOnlyTargets = map[AppointmentStatus]bool{
	StatusApproved:  true,
	StatusRejected:  true,
	StatusCompleted: true,
}

// IsAdminOnlyTarget true, если перевод в статус разрешён только администратору
func IsAdminOnlyTarget(s AppointmentStatus) bool {
	return adminOnlyTargets[s]
}
