package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe     = "\uf0ac" // browser/web
	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGithub    = "\uf09b" // github
	IconGo        = "\ue627" // go gopher

	IconCheck    = "\uf00c"
	IconX        = "\uf00d"
	IconWarning  = "\uf071"
	IconInfo     = "\uf05a"
	IconPackage  = "\uf187" // archive/package
	IconFolder   = "\uf07b"
	IconConfig   = "\ue615"
	IconDatabase = "\uf1c0"
	IconImage    = "\uf1c5"
	IconClock    = "\uf017"
	IconCursor   = "\uf054" // chevron-right
)
