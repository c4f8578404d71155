// Пакет rbac — роли администраторов каталога и права на операции.
// Роль вычисляется из групп IdP; при нескольких совпадениях берётся старшая.
package rbac

// Роли в порядке возрастания привилегий.
const (
	// RoleEditor — подготовка карточек: поиск в TMDB, автозаполнение, справочники.
	RoleEditor = "editor"
	// RoleAdmin — всё, что может editor, плюс публикация фильмов.
	RoleAdmin = "admin"
)

// Permission — право на операцию API.
type Permission string

// Права на операции каталога.
const (
	PermSearchMetadata Permission = "metadata:search"
	PermReadGenres     Permission = "genres:read"
	PermSubmitFilm     Permission = "films:submit"
)

var roleWeight = map[string]int{
	RoleEditor: 1,
	RoleAdmin:  2,
}

// permissions — минимальная роль для каждого права.
var permissions = map[Permission]string{
	PermSearchMetadata: RoleEditor,
	PermReadGenres:     RoleEditor,
	PermSubmitFilm:     RoleAdmin,
}

// Allows проверяет, даёт ли роль указанное право.
// Неизвестные роли и права запрещены.
func Allows(role string, perm Permission) bool {
	minRole, ok := permissions[perm]
	if !ok {
		return false
	}
	w, ok := roleWeight[role]
	if !ok {
		return false
	}
	return w >= roleWeight[minRole]
}

// HighestRole возвращает старшую роль из набора.
// Если набор пуст — возвращает пустую строку.
func HighestRole(roles []string) string {
	highest := ""
	for _, r := range roles {
		if roleWeight[r] > roleWeight[highest] {
			highest = r
		}
	}
	return highest
}

// MapGroupsToRole определяет роль по группам IdP.
// Если ни одна группа не совпала — возвращает пустую строку.
func MapGroupsToRole(groups []string, adminGroups, editorGroups []string) string {
	adminSet := toSet(adminGroups)
	editorSet := toSet(editorGroups)

	var roles []string
	for _, g := range groups {
		if adminSet[g] {
			roles = append(roles, RoleAdmin)
		}
		if editorSet[g] {
			roles = append(roles, RoleEditor)
		}
	}

	return HighestRole(roles)
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	_, ok := roleWeight[role]
	return ok
}

func toSet(items []string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, item := range items {
		s[item] = true
	}
	return s
}
