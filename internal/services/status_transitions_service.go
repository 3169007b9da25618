package services

import "biotrack/internal/models"

// Допустимые переходы статусов аккаунта.
// verified — финалка; обратных переходов нет.
var AccountTransitions = map[string]map[string]bool{
	models.AccountStatusStarted:  {models.AccountStatusAwaiting: true},
	models.AccountStatusAwaiting: {models.AccountStatusVerified: true},
	models.AccountStatusVerified: {},
}

func canTransition(current, to string, table map[string]map[string]bool) bool {
	if current == "" {
		return true
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[to]
}

// CanAccountTransition — проверка перед UpdateStatus.
func CanAccountTransition(current, to string) bool {
	return canTransition(current, to, AccountTransitions)
}
