// Package order turns a cart into the text the café receives.
package order

import (
	"fmt"
	"net/url"
	"strings"

	"coffebless/internal/models"

	"github.com/dustin/go-humanize"
)

const (
	Separator = "─────────────────────"
	Header    = "🛒 *Nuevo Pedido — Coffe Bless*"
	Footer    = "_Enviado desde coffe-bless.vercel.app_"

	// ContactGreeting is the message of the floating WhatsApp button.
	ContactGreeting = "¡Hola! Me gustaría hacer un pedido 🙌"

	noSyrup = "Ninguno"
)

// FormatCLP renders pesos with Chilean grouping: 5800 becomes "5.800".
func FormatCLP(amount int64) string {
	return humanize.FormatInteger("#.###,", int(amount))
}

// Group is the lines of one category, in cart order.
type Group struct {
	Category string
	Items    []models.CartItem
}

// GroupByCategory groups lines by category in order of first appearance.
func GroupByCategory(items []models.CartItem) []Group {
	var groups []Group
	index := map[string]int{}
	for _, it := range items {
		cat := it.Product.CategoryID
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, Group{Category: cat})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// FormatReceipt renders the WhatsApp order message.
func FormatReceipt(items []models.CartItem) string {
	lines := []string{Header, Separator}

	for _, g := range GroupByCategory(items) {
		lines = append(lines, "", fmt.Sprintf("📌 *%s*", g.Category))
		for _, it := range g.Items {
			lines = append(lines, itemLine(it))
			if detail := CustomizationDetail(it); detail != "" {
				lines = append(lines, "      "+detail)
			}
		}
	}

	lines = append(lines,
		"",
		Separator,
		fmt.Sprintf("💰 *Total estimado: $%s*", FormatCLP(models.LinesTotal(items))),
		"",
		Footer,
	)
	return strings.Join(lines, "\n")
}

func itemLine(it models.CartItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  • %dx %s", it.Quantity, it.Product.Name)
	if it.Size != models.SizeNone {
		fmt.Fprintf(&b, " (%s)", it.Size)
	}
	fmt.Fprintf(&b, " — $%s", FormatCLP(it.LineTotal()))
	return b.String()
}

// CustomizationDetail describes a built drink, e.g.
// "(Latte, Avena, Vainilla, Canela) para Andrés". It is empty for lines
// that carry no customization.
func CustomizationDetail(it models.CartItem) string {
	c := it.Customization
	if !it.Product.AllowsCustomization || c == nil {
		return ""
	}
	var parts []string
	for _, p := range []string{c.Base, c.Milk} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if s := strings.TrimSpace(c.Syrup); s != "" && s != noSyrup {
		parts = append(parts, s)
	}
	for _, e := range c.Extras {
		if e = strings.TrimSpace(e); e != "" {
			parts = append(parts, e)
		}
	}

	var out string
	if len(parts) > 0 {
		out = "(" + strings.Join(parts, ", ") + ")"
	}
	if name := strings.TrimSpace(c.CustomerName); name != "" {
		if out != "" {
			out += " "
		}
		out += "para " + name
	}
	return out
}

// WhatsAppURL builds the wa.me deep link carrying text.
func WhatsAppURL(phone, text string) string {
	return "https://wa.me/" + digits(phone) + "?text=" + encodeComponent(text)
}

// ContactURL is the deep link of the floating button, with a greeting and no
// order.
func ContactURL(phone string) string {
	return WhatsAppURL(phone, ContactGreeting)
}

// Handoff renders the receipt and its link in one go. A name or note from the
// checkout form is appended below the receipt.
func Handoff(phone string, items []models.CartItem, form models.CheckoutForm) models.Handoff {
	text := FormatReceipt(items)
	if name := strings.TrimSpace(form.CustomerName); name != "" {
		text += "\n👤 *Nombre:* " + name
	}
	if notes := strings.TrimSpace(form.Notes); notes != "" {
		text += "\n📝 *Nota:* " + notes
	}
	return models.Handoff{
		Text:       text,
		URL:        WhatsAppURL(phone, text),
		TotalItems: models.ItemCount(items),
		TotalPrice: models.LinesTotal(items),
	}
}

// encodeComponent escapes like a browser's encodeURIComponent: spaces become
// %20, not "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// digits drops "+", spaces and dashes people paste into phone numbers.
func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
