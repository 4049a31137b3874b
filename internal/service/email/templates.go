// internal/service/email/templates.go
package email

import (
	"fmt"
	"strings"

	"quinto-service/internal/domain/lead"
	"quinto-service/internal/domain/property"
)

// MatchNotificationSubject is the subject line of match e-mails.
const MatchNotificationSubject = "Encontramos imóveis para você no Quinto"

// BuildMatchNotification renders the body of a match e-mail: the buyer's
// profile matched one or more new listings.
func BuildMatchNotification(profile *lead.Profile, matches []*property.Property, baseURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p>Olá, <strong>%s</strong>!</p>", profile.FullName)
	b.WriteString("<p>Encontramos novos imóveis que combinam com o que você procura:</p>")

	for _, p := range matches {
		fmt.Fprintf(&b, `<div class="property">`)
		fmt.Fprintf(&b, "<strong>%s</strong><br/>", p.Title)
		if p.Location != "" {
			fmt.Fprintf(&b, "%s<br/>", p.Location)
		}
		fmt.Fprintf(&b, `<span class="price">R$ %.2f</span><br/>`, p.Price)
		fmt.Fprintf(&b, `<a href="%s/imoveis/%d">Ver detalhes</a>`, baseURL, p.ID)
		b.WriteString("</div>")
	}

	b.WriteString("<p>Boa busca!</p>")
	return b.String()
}

// BuildNewLeadNotification renders the body sent to a broker when a buyer
// registers interest in one of their listings.
func BuildNewLeadNotification(fullName, propertyTitle string, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>%s</strong> demonstrou interesse no imóvel <strong>%s</strong>.</p>",
		fullName, propertyTitle)
	fmt.Fprintf(&b, `<p><a href="%s/corretor/pipeline">Abrir o funil de vendas</a></p>`, baseURL)
	return b.String()
}
