package authz

// Роли аккаунтов. user и company выбираются при регистрации,
// admin назначается только напрямую в БД.
const (
	RoleUser    = "user"
	RoleCompany = "company"
	RoleAdmin   = "admin"
)

func IsRegisterable(role string) bool {
	return role == RoleUser || role == RoleCompany
}

func IsAdmin(role string) bool {
	return role == RoleAdmin
}
