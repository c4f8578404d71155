package rbac

import (
	"testing"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name string
		role string
		perm Permission
		want bool
	}{
		{"admin публикует фильм", RoleAdmin, PermSubmitFilm, true},
		{"admin ищет в TMDB", RoleAdmin, PermSearchMetadata, true},
		{"editor ищет в TMDB", RoleEditor, PermSearchMetadata, true},
		{"editor читает жанры", RoleEditor, PermReadGenres, true},
		{"editor не публикует", RoleEditor, PermSubmitFilm, false},
		{"без роли ничего нельзя", "", PermReadGenres, false},
		{"неизвестная роль", "superadmin", PermReadGenres, false},
		{"неизвестное право", RoleAdmin, Permission("films:delete"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allows(tt.role, tt.perm); got != tt.want {
				t.Errorf("Allows(%q, %q) = %v, хотели %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestHighestRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  string
	}{
		{name: "пустой набор", roles: nil, want: ""},
		{name: "один admin", roles: []string{RoleAdmin}, want: RoleAdmin},
		{name: "editor + admin", roles: []string{RoleEditor, RoleAdmin}, want: RoleAdmin},
		{name: "неизвестные роли игнорируются", roles: []string{"guest", RoleEditor}, want: RoleEditor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HighestRole(tt.roles); got != tt.want {
				t.Errorf("HighestRole(%v) = %q, хотели %q", tt.roles, got, tt.want)
			}
		})
	}
}

func TestMapGroupsToRole(t *testing.T) {
	adminGroups := []string{"kinoteka-admins"}
	editorGroups := []string{"kinoteka-editors"}

	tests := []struct {
		name   string
		groups []string
		want   string
	}{
		{"группа admins -> admin", []string{"kinoteka-admins"}, RoleAdmin},
		{"группа editors -> editor", []string{"kinoteka-editors"}, RoleEditor},
		{"обе группы -> admin", []string{"kinoteka-editors", "kinoteka-admins"}, RoleAdmin},
		{"нет совпадений", []string{"other-group"}, ""},
		{"пустой список", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapGroupsToRole(tt.groups, adminGroups, editorGroups); got != tt.want {
				t.Errorf("MapGroupsToRole(%v, ...) = %q, хотели %q", tt.groups, got, tt.want)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	for role, want := range map[string]bool{
		RoleAdmin:  true,
		RoleEditor: true,
		"readonly": false,
		"":         false,
	} {
		if got := IsValidRole(role); got != want {
			t.Errorf("IsValidRole(%q) = %v, хотели %v", role, got, want)
		}
	}
}
