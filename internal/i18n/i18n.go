package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

// NewTranslations crea el catálogo de mensajes. Los mensajes por defecto en
// inglés van embebidos; los catálogos adicionales se cargan desde localesPath
// (archivos locales/active.*.toml).
func NewTranslations(defaultLang, localesPath string) (*Translations, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")

	if localesPath != "" {
		files, err := filepath.Glob(filepath.Join(localesPath, "active.*.toml"))
		if err != nil {
			return nil, fmt.Errorf("error reading locales: %w", err)
		}

		for _, file := range files {
			if _, err := bundle.LoadMessageFile(file); err != nil {
				return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
			}
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[event_issue_opened]
	other = "Opened issue #{{.Number}}: {{.Title}}"

	[event_issue_closed]
	other = "Closed issue #{{.Number}}: {{.Title}}"

	[event_issue_modified]
	other = "Modified issue #{{.Number}}: {{.Title}}"

	[event_issue_comment]
	other = "Commented on issue #{{.Number}}: {{.Title}}"

	[event_push]
	one = "Pushed {{.Count}} commit to {{.Ref}}"
	other = "Pushed {{.Count}} commits to {{.Ref}}"

	[event_pr_opened]
	other = "Opened PR #{{.Number}}: {{.Title}}"

	[event_pr_closed]
	other = "Closed PR #{{.Number}}: {{.Title}}"

	[event_pr_modified]
	other = "Modified PR #{{.Number}}: {{.Title}}"

	[event_pr_review]
	other = "Review {{.State}} on PR #{{.Number}}"

	[event_pr_review_comment]
	other = "Commented on PR #{{.Number}}"

	[email_magic_link_subject]
	other = "Your sign-in link - Project Tracker"

	[error_unauthenticated]
	other = "Not authenticated"

	[error_email_required]
	other = "Email required"

	[error_email_not_allowed]
	other = "Email not allowed"

	[error_email_send]
	other = "Error sending the email"

	[error_request]
	other = "Error processing the request"
	`
