package authz

// NavItem - пункт бокового меню панели управления.
type NavItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type navRule struct {
	item      NavItem
	requires  Capability
	adminOnly bool
}

var navigation = []navRule{
	{item: NavItem{Key: "dashboard", Title: "Главная", Path: "/dashboard"}},
	{item: NavItem{Key: "families", Title: "Семьи", Path: "/dashboard/families"}},
	{item: NavItem{Key: "add_family", Title: "Добавить семью", Path: "/dashboard/families/new"}, requires: CanAddFamily},
	{item: NavItem{Key: "documents", Title: "Документы", Path: "/dashboard/documents"}, requires: CanViewDocuments},
	{item: NavItem{Key: "map", Title: "Карта", Path: "/dashboard/map"}, requires: CanViewMap},
	{item: NavItem{Key: "statistics", Title: "Статистика", Path: "/dashboard/statistics"}, requires: CanViewStatistics},
	{item: NavItem{Key: "reports", Title: "Отчёты", Path: "/dashboard/reports"}, requires: CanViewReports},
	{item: NavItem{Key: "users", Title: "Пользователи", Path: "/dashboard/users"}, requires: CanManageUsers},
	{item: NavItem{Key: "history", Title: "История действий", Path: "/dashboard/history"}, adminOnly: true},
	{item: NavItem{Key: "settings", Title: "Настройки", Path: "/dashboard/settings"}, requires: CanManageSettings},
}

// Navigation возвращает пункты меню, доступные пользователю.
func Navigation(ctx Context) []NavItem {
	items := make([]NavItem, 0, len(navigation))
	if !ctx.Role.IsValid() {
		return items
	}
	for _, rule := range navigation {
		if rule.adminOnly && !IsAdmin(ctx) {
			continue
		}
		if rule.requires != "" && !CanDo(rule.requires, ctx) {
			continue
		}
		items = append(items, rule.item)
	}
	return items
}
