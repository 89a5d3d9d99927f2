package task

import "github.com/google/uuid"

// CanMutateItem отвечает на вопрос «может ли аккаунт менять этот элемент»:
// аккаунт должен владеть задачей, а элемент — принадлежать ей.
// Отдельных правил по полям сейчас нет, все проверки ниже — одна и та же.
func CanMutateItem(accountID uuid.UUID, t Task, item TaskItem) bool {
	if !t.IsOwnedBy(accountID) {
		return false
	}
	for _, existing := range t.Items {
		if existing.ID == item.ID {
			return true
		}
	}
	return false
}

func CanChangePriority(accountID uuid.UUID, t Task, item TaskItem) bool {
	return CanMutateItem(accountID, t, item)
}

func CanChangeDensity(accountID uuid.UUID, t Task, item TaskItem) bool {
	return CanMutateItem(accountID, t, item)
}

func CanChangeDurationTime(accountID uuid.UUID, t Task, item TaskItem) bool {
	return CanMutateItem(accountID, t, item)
}

func CanChangeStatus(accountID uuid.UUID, t Task, item TaskItem) bool {
	return CanMutateItem(accountID, t, item)
}
