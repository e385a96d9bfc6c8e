package services

import (
	"bytes"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"gopkg.in/yaml.v3"
)

// Template names in the email catalog
const (
	TemplateContractorSelected         = "contractor_selected"
	TemplateCustomerSelectionConfirmed = "customer_selection_confirmed"
	TemplateProjectApproved            = "project_approved"
	TemplateQuoteReceived              = "quote_received"
)

//go:embed templates/emails.yaml
var defaultEmailCatalog []byte

// EmailData is the data available to every email template
type EmailData struct {
	RecipientName    string
	CustomerName     string
	ContractorName   string
	ContractorPhone  string
	ProjectTitle     string
	Price            string
	QuoteDescription string
}

// RenderedEmail is a subject and HTML body ready to send
type RenderedEmail struct {
	Subject string
	HTML    string
}

type emailTemplateSource struct {
	Subject string `yaml:"subject"`
	HTML    string `yaml:"html"`
}

type compiledEmailTemplate struct {
	subject *texttemplate.Template
	html    *htmltemplate.Template
}

// EmailTemplates renders catalog templates by name and language
type EmailTemplates struct {
	defaultLanguage string
	templates       map[string]map[string]compiledEmailTemplate
}

// LoadEmailTemplates parses the embedded catalog
func LoadEmailTemplates(defaultLanguage string) (*EmailTemplates, error) {
	return ParseEmailTemplates(defaultEmailCatalog, defaultLanguage)
}

// ParseEmailTemplates parses a YAML catalog of name -> language -> {subject, html}.
// Every template must define defaultLanguage.
func ParseEmailTemplates(data []byte, defaultLanguage string) (*EmailTemplates, error) {
	var catalog map[string]map[string]emailTemplateSource
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	templates := make(map[string]map[string]compiledEmailTemplate, len(catalog))
	for name, languages := range catalog {
		if _, ok := languages[defaultLanguage]; !ok {
			return nil, fmt.Errorf("email template %q has no %q version", name, defaultLanguage)
		}

		compiled := make(map[string]compiledEmailTemplate, len(languages))
		for language, source := range languages {
			id := name + "." + language
			subject, err := texttemplate.New(id).Option("missingkey=error").Parse(source.Subject)
			if err != nil {
				return nil, fmt.Errorf("failed to parse subject of %s: %w", id, err)
			}
			html, err := htmltemplate.New(id).Option("missingkey=error").Parse(source.HTML)
			if err != nil {
				return nil, fmt.Errorf("failed to parse body of %s: %w", id, err)
			}
			compiled[language] = compiledEmailTemplate{subject: subject, html: html}
		}
		templates[name] = compiled
	}

	return &EmailTemplates{defaultLanguage: defaultLanguage, templates: templates}, nil
}

// DefaultLanguage returns the fallback language
func (t *EmailTemplates) DefaultLanguage() string {
	return t.defaultLanguage
}

// Render renders template name in language, falling back to the default language
func (t *EmailTemplates) Render(name, language string, data EmailData) (*RenderedEmail, error) {
	languages, ok := t.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown email template %q", name)
	}

	tmpl, ok := languages[language]
	if !ok {
		tmpl = languages[t.defaultLanguage]
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("failed to render subject of %s: %w", name, err)
	}
	if err := tmpl.html.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render body of %s: %w", name, err)
	}

	return &RenderedEmail{Subject: subject.String(), HTML: body.String()}, nil
}

var emailTemplatesInstance *EmailTemplates

// InitEmailTemplates loads the embedded catalog as the global template set
func InitEmailTemplates(defaultLanguage string) (*EmailTemplates, error) {
	templates, err := LoadEmailTemplates(defaultLanguage)
	if err != nil {
		return nil, err
	}
	emailTemplatesInstance = templates
	return templates, nil
}

// GetEmailTemplates returns the global template set
func GetEmailTemplates() *EmailTemplates {
	return emailTemplatesInstance
}

// SetEmailTemplates sets the global template set (primarily for testing)
func SetEmailTemplates(templates *EmailTemplates) {
	emailTemplatesInstance = templates
}
