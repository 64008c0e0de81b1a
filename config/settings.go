package config

import "github.com/ilyakaznacheev/cleanenv"

// SiteSettings is the site-wide configuration, loaded once at process start
// and passed explicitly to the components that need it. It replaces a
// get-or-create settings row in the database.
type SiteSettings struct {
	SiteName        string `env:"SITE_NAME" env-default:"blog-yk"`
	SiteDescription string `env:"SITE_DESCRIPTION" env-default:""`
	SiteAuthor      string `env:"SITE_AUTHOR" env-default:""`
	SiteLogo        string `env:"SITE_LOGO" env-default:""`
	FooterText      string `env:"FOOTER_TEXT" env-default:""`

	GithubURL string `env:"GITHUB_URL" env-default:""`

	// Comment behavior. With moderation off, new comments are visible
	// immediately; with anonymous comments off, submission requires a
	// logged-in user.
	CommentModeration       bool `env:"COMMENT_MODERATION" env-default:"true"`
	AllowAnonymousComments  bool `env:"ALLOW_ANONYMOUS_COMMENTS" env-default:"false"`
	NotifyModerationByEmail bool `env:"NOTIFY_MODERATION_BY_EMAIL" env-default:"false"`
	ModerationEmail         string `env:"MODERATION_EMAIL" env-default:""`
}

// LoadSettings reads SiteSettings from the environment.
func LoadSettings() (SiteSettings, error) {
	var s SiteSettings
	err := cleanenv.ReadEnv(&s)
	return s, err
}
