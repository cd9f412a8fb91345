package view

// Project is one portfolio entry on the projects page.
type Project struct {
	Title       string
	Description string
	Stack       []string
	URL         string
	Repo        string
	Image       string
}

// Projects returns the portfolio shown on /projects. The list is fixed at
// build time; it is not stored in the database.
func Projects() []Project {
	return []Project{
		{
			Title:       "Folio",
			Description: "This site: articles with reader comments, static pages and a small admin panel.",
			Stack:       []string{"Go", "Gin", "GORM", "PostgreSQL"},
			Repo:        "https://github.com/mauricioaragon/folio",
			Image:       "img/projects/folio.png",
		},
		{
			Title:       "Trail Log",
			Description: "Offline-first hiking journal that syncs GPX tracks and photos once a connection is back.",
			Stack:       []string{"TypeScript", "SQLite", "Service Workers"},
			URL:         "https://trail-log.mauricioaragon.dev",
			Image:       "img/projects/trail-log.png",
		},
		{
			Title:       "Budget Buckets",
			Description: "Envelope budgeting CLI that imports bank CSV exports and reports monthly drift per bucket.",
			Stack:       []string{"Go", "Cobra", "CSV"},
			Repo:        "https://github.com/mauricioaragon/budget-buckets",
		},
		{
			Title:       "Recipe Scaler",
			Description: "Scales ingredient lists between servings and unit systems, with pantry-friendly rounding.",
			Stack:       []string{"Python", "Flask"},
			URL:         "https://recipes.mauricioaragon.dev",
		},
	}
}

// Tool is one entry on the tools page.
type Tool struct {
	Name     string
	Category string
	Note     string
}

// Tools returns the everyday tool list grouped by the template on Category.
func Tools() []Tool {
	return []Tool{
		{Name: "Neovim", Category: "Editor", Note: "Main editor, LSP for Go and TypeScript."},
		{Name: "VS Code", Category: "Editor", Note: "For notebooks and pairing sessions."},
		{Name: "tmux", Category: "Terminal", Note: "One session per project."},
		{Name: "Go", Category: "Languages", Note: "Services and command line tools."},
		{Name: "Python", Category: "Languages", Note: "Scripts and data work."},
		{Name: "PostgreSQL", Category: "Data", Note: "Default database for anything long lived."},
		{Name: "SQLite", Category: "Data", Note: "Local development and small tools."},
		{Name: "Docker", Category: "Infrastructure", Note: "Reproducible local stacks."},
		{Name: "Render", Category: "Infrastructure", Note: "Hosting for this site."},
	}
}
